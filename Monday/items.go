package Monday

import (
	"encoding/json"
	"strings"
)

// Person is one entry in a people column.
type Person struct {
	ID json.Number `json:"id"`
}

// LinkedItem is one entry in a board-relation column.
type LinkedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ColumnValue is a typed field on an item. Text and Value are both kept
// because different queries project different shapes; PersonsAndTeams and
// LinkedItems are only populated when the query uses the matching fragment.
type ColumnValue struct {
	ID              string       `json:"id"`
	Text            string       `json:"text"`
	Value           string       `json:"value"`
	PersonsAndTeams []Person     `json:"persons_and_teams"`
	LinkedItems     []LinkedItem `json:"linked_items"`
}

// Item is one board row, optionally with its parent row.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ParentItem   *ParentRef    `json:"parent_item"`
	ColumnValues []ColumnValue `json:"column_values"`
}

type ParentRef struct {
	ID string `json:"id"`
}

// Column returns the column value with the given id, or nil.
func (i *Item) Column(id string) *ColumnValue {
	for idx := range i.ColumnValues {
		if i.ColumnValues[idx].ID == id {
			return &i.ColumnValues[idx]
		}
	}
	return nil
}

// HasPerson reports whether the fragment-projected people set contains the
// given person id.
func (cv *ColumnValue) HasPerson(personID string) bool {
	if cv == nil {
		return false
	}
	for _, p := range cv.PersonsAndTeams {
		if p.ID.String() == personID {
			return true
		}
	}
	return false
}

// ValueHasPerson checks people membership against the raw column value,
// for queries that project value instead of the people fragment.
func (cv *ColumnValue) ValueHasPerson(personID string) bool {
	if cv == nil || cv.Value == "" {
		return false
	}
	var parsed struct {
		PersonsAndTeams []Person `json:"personsAndTeams"`
	}
	if err := json.Unmarshal([]byte(cv.Value), &parsed); err != nil {
		return false
	}
	for _, p := range parsed.PersonsAndTeams {
		if p.ID.String() == personID {
			return true
		}
	}
	return false
}

// StrippedValue returns the raw value with surrounding quotes removed.
// Numeric columns come back as JSON strings, so "123" must compare equal
// to 123.
func (cv *ColumnValue) StrippedValue() string {
	if cv == nil {
		return ""
	}
	return strings.ReplaceAll(cv.Value, `"`, "")
}

// DateEquals reports whether a date column's raw value holds exactly the
// given YYYY-MM-DD date.
func (cv *ColumnValue) DateEquals(date string) bool {
	if cv == nil || cv.Value == "" {
		return false
	}
	var parsed struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal([]byte(cv.Value), &parsed); err != nil {
		return false
	}
	return parsed.Date == date
}

// FirstAssetID extracts the first attached file's asset id from a file
// column, or "" when the column is empty or unparseable.
func (cv *ColumnValue) FirstAssetID() string {
	if cv == nil || cv.Value == "" {
		return ""
	}
	var parsed struct {
		Files []struct {
			AssetID json.Number `json:"assetId"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(cv.Value), &parsed); err != nil {
		return ""
	}
	if len(parsed.Files) == 0 {
		return ""
	}
	return parsed.Files[0].AssetID.String()
}

// BoardItems unwraps a boards(...){items_page{items}} query response.
func BoardItems(data json.RawMessage) ([]Item, error) {
	var parsed struct {
		Boards []struct {
			ItemsPage struct {
				Items []Item `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Boards) == 0 {
		return nil, nil
	}
	return parsed.Boards[0].ItemsPage.Items, nil
}

// Items unwraps an items(ids: [...]) query response.
func Items(data json.RawMessage) ([]Item, error) {
	var parsed struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return parsed.Items, nil
}

// Assets unwraps an assets(ids: [...]) query response into an id → public
// URL map.
func Assets(data json.RawMessage) (map[string]string, error) {
	var parsed struct {
		Assets []struct {
			ID        json.Number `json:"id"`
			PublicURL string      `json:"public_url"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	urls := make(map[string]string, len(parsed.Assets))
	for _, a := range parsed.Assets {
		urls[a.ID.String()] = a.PublicURL
	}
	return urls, nil
}

// CreatedItemID pulls the new item id out of a create_item, create_subitem
// or create_update mutation response.
func CreatedItemID(data json.RawMessage, mutation string) (int64, error) {
	var parsed map[string]struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, err
	}
	entry, ok := parsed[mutation]
	if !ok {
		return 0, errNoMutationResult(mutation)
	}
	return entry.ID.Int64()
}

type errNoMutationResult string

func (e errNoMutationResult) Error() string {
	return "no result for mutation " + string(e)
}
