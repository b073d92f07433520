package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodListing_KeepsUndeclaredFields(t *testing.T) {
	body := `{"foodName":"Rice","foodQuantity":3,"foodStatus":"Available","tags":["grain"],"halal":true}`

	var f FoodListing
	require.NoError(t, json.Unmarshal([]byte(body), &f))

	assert.Equal(t, "Rice", f.FoodName)
	assert.Equal(t, 3, f.FoodQuantity)
	assert.Len(t, f.Extra, 2)
	assert.JSONEq(t, `["grain"]`, string(f.Extra["tags"]))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"","foodName":"Rice","foodQuantity":3,"foodStatus":"Available","tags":["grain"],"halal":true}`, string(out))
}

func TestFoodListing_CaseFoldedKeyIsNotExtra(t *testing.T) {
	var f FoodListing
	require.NoError(t, json.Unmarshal([]byte(`{"foodname":"Rice","FOODQUANTITY":2,"halal":true}`), &f))

	assert.Equal(t, "Rice", f.FoodName)
	assert.Equal(t, 2, f.FoodQuantity)
	assert.Len(t, f.Extra, 1)
	assert.Contains(t, f.Extra, "halal")

	out, err := json.Marshal(f)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.NotContains(t, back, "foodname")
	assert.Equal(t, "Rice", back["foodName"])
}

func TestFoodListing_EmptyStringIsAbsent(t *testing.T) {
	var f FoodListing
	require.NoError(t, json.Unmarshal([]byte(`{"foodName":"Rice","foodImage":"","pickupLocation":""}`), &f))
	assert.Empty(t, f.Extra)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.NotContains(t, back, "foodImage")
	assert.NotContains(t, back, "pickupLocation")
}

func TestFoodListing_DeclaredFieldWinsOverExtra(t *testing.T) {
	f := FoodListing{
		ID:         "abc",
		FoodName:   "Bread",
		FoodStatus: StatusAvailable,
		Extra:      Extra{"foodName": json.RawMessage(`"Shadow"`)},
	}

	out, err := json.Marshal(f)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "Bread", back["foodName"])
}

func TestFoodListing_NilPointerEncodesNull(t *testing.T) {
	var f *FoodListing
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFoodPatch_Apply(t *testing.T) {
	f := FoodListing{
		ID:           "abc",
		FoodName:     "Rice",
		FoodQuantity: 4,
		FoodStatus:   StatusAvailable,
		Extra:        Extra{"color": json.RawMessage(`"white"`)},
	}

	var p FoodPatch
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"other","foodQuantity":2,"size":"large"}`), &p))
	p.Apply(&f)

	assert.Equal(t, "abc", f.ID, "patch must not change the id")
	assert.Equal(t, "Rice", f.FoodName)
	assert.Equal(t, 2, f.FoodQuantity)
	assert.Equal(t, StatusAvailable, f.FoodStatus)
	assert.JSONEq(t, `"white"`, string(f.Extra["color"]))
	assert.JSONEq(t, `"large"`, string(f.Extra["size"]))
	_, leaked := f.Extra["_id"]
	assert.False(t, leaked)
}

func TestExtra_ValueAndScan(t *testing.T) {
	var empty Extra
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var e Extra
	require.NoError(t, e.Scan("{}"))
	assert.Nil(t, e)

	require.NoError(t, e.Scan([]byte(`{"a":1}`)))
	assert.JSONEq(t, `1`, string(e["a"]))

	assert.Error(t, e.Scan(42))
}

func TestPayment_UnknownFieldsRoundTrip(t *testing.T) {
	body := `{"email":"a@b.com","amount":12.5,"currency":"usd","foodIds":["x","y"]}`

	var p Payment
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, 12.5, p.Amount)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"","email":"a@b.com","amount":12.5,"currency":"usd","foodIds":["x","y"]}`, string(out))
}
