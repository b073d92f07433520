package model

import "encoding/json"

// StatusAvailable is the only status under which a listing shows up in the
// public catalog. Every other status value is treated as taken.
const StatusAvailable = "Available"

// FoodListing is a donor's posted food item.
//
// ExpiredDate is kept as the client sent it; ISO-8601 dates ("2026-10-15")
// sort correctly as strings, which is what the catalog sort relies on.
type FoodListing struct {
	ID              string `json:"_id"`
	FoodName        string `json:"foodName"`
	FoodImage       string `json:"foodImage,omitempty"`
	FoodQuantity    int    `json:"foodQuantity"`
	PickupLocation  string `json:"pickupLocation,omitempty"`
	ExpiredDate     string `json:"expiredDate,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
	FoodStatus      string `json:"foodStatus"`
	DonatorName     string `json:"donatorName,omitempty"`
	DonatorEmail    string `json:"donatorEmail,omitempty"`
	DonatorImage    string `json:"donatorImage,omitempty"`

	Extra Extra `json:"-"`
}

type foodListingDoc FoodListing

var foodListingKeys = jsonKeys(foodListingDoc{})

func (f FoodListing) MarshalJSON() ([]byte, error) {
	return joinDocument(foodListingDoc(f), f.Extra)
}

func (f *FoodListing) UnmarshalJSON(data []byte) error {
	var doc foodListingDoc
	extra, err := splitDocument(data, &doc, foodListingKeys)
	if err != nil {
		return err
	}
	*f = FoodListing(doc)
	f.Extra = extra
	return nil
}

// FoodPatch is a partial listing: nil fields are left untouched.
// A "_id" key in the body is ignored; listing ids never change.
type FoodPatch struct {
	FoodName        *string `json:"foodName"`
	FoodImage       *string `json:"foodImage"`
	FoodQuantity    *int    `json:"foodQuantity"`
	PickupLocation  *string `json:"pickupLocation"`
	ExpiredDate     *string `json:"expiredDate"`
	AdditionalNotes *string `json:"additionalNotes"`
	FoodStatus      *string `json:"foodStatus"`
	DonatorName     *string `json:"donatorName"`
	DonatorEmail    *string `json:"donatorEmail"`
	DonatorImage    *string `json:"donatorImage"`

	Extra Extra `json:"-"`
}

type foodPatchDoc FoodPatch

var foodPatchKeys = func() map[string]struct{} {
	keys := jsonKeys(foodPatchDoc{})
	keys["_id"] = struct{}{}
	return keys
}()

func (p *FoodPatch) UnmarshalJSON(data []byte) error {
	var doc foodPatchDoc
	extra, err := splitDocument(data, &doc, foodPatchKeys)
	if err != nil {
		return err
	}
	*p = FoodPatch(doc)
	p.Extra = extra
	return nil
}

// Apply merges the patch into f.
func (p FoodPatch) Apply(f *FoodListing) {
	setString(&f.FoodName, p.FoodName)
	setString(&f.FoodImage, p.FoodImage)
	if p.FoodQuantity != nil {
		f.FoodQuantity = *p.FoodQuantity
	}
	setString(&f.PickupLocation, p.PickupLocation)
	setString(&f.ExpiredDate, p.ExpiredDate)
	setString(&f.AdditionalNotes, p.AdditionalNotes)
	setString(&f.FoodStatus, p.FoodStatus)
	setString(&f.DonatorName, p.DonatorName)
	setString(&f.DonatorEmail, p.DonatorEmail)
	setString(&f.DonatorImage, p.DonatorImage)

	if len(p.Extra) > 0 {
		merged := make(Extra, len(f.Extra)+len(p.Extra))
		for k, v := range f.Extra {
			merged[k] = v
		}
		for k, v := range p.Extra {
			merged[k] = json.RawMessage(append([]byte(nil), v...))
		}
		f.Extra = merged
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
