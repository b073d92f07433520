package model

// FoodRequest is a recipient's claim against a listing. FoodID is a plain
// reference: nothing stops it from pointing at a listing that was deleted.
type FoodRequest struct {
	ID              string `json:"_id"`
	FoodID          string `json:"foodId"`
	RequesterEmail  string `json:"requesterEmail"`
	RequesterName   string `json:"requesterName,omitempty"`
	RequestDate     string `json:"requestDate,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`

	Extra Extra `json:"-"`
}

type foodRequestDoc FoodRequest

var foodRequestKeys = jsonKeys(foodRequestDoc{})

func (r FoodRequest) MarshalJSON() ([]byte, error) {
	return joinDocument(foodRequestDoc(r), r.Extra)
}

func (r *FoodRequest) UnmarshalJSON(data []byte) error {
	var doc foodRequestDoc
	extra, err := splitDocument(data, &doc, foodRequestKeys)
	if err != nil {
		return err
	}
	*r = FoodRequest(doc)
	r.Extra = extra
	return nil
}
