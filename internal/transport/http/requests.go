package http

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// textValue accepts a JSON string, number or boolean and keeps its text.
// Clients send ids and grid cells either way.
type textValue string

// UnmarshalJSON implements json.Unmarshaler
func (t *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textValue(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = textValue(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("value must be a string or a number")
		}
		*t = textValue(n.String())
	}
	return nil
}

type fileRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
}

type columnsRequest struct {
	Filename string   `json:"filename" validate:"required,filename"`
	Columns  []string `json:"columns"`
}

type ttestRequest struct {
	Filename string   `json:"filename" validate:"required,filename"`
	GroupCol string   `json:"group_col" validate:"required"`
	Columns  []string `json:"columns" validate:"required,min=1"`
}

type radarRequest struct {
	Filename  string    `json:"filename" validate:"required,filename"`
	IDCol     string    `json:"id_col" validate:"required"`
	TargetVal textValue `json:"target_val" validate:"required"`
}

type optionsRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Column   string `json:"column" validate:"required"`
}

type predictRequest struct {
	Filename    string   `json:"filename" validate:"required,filename"`
	TargetCol   string   `json:"target_col" validate:"required"`
	FeatureCols []string `json:"feature_cols" validate:"required,min=1"`
}

type manualUploadRequest struct {
	Grid [][]textValue `json:"grid" validate:"required,min=1"`
}

// strings converts the grid into plain rows
func (m manualUploadRequest) strings() [][]string {
	out := make([][]string, len(m.Grid))
	for i, row := range m.Grid {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = string(cell)
		}
	}
	return out
}

type saveRequest struct {
	Filename           string                   `json:"filename" validate:"required,filename"`
	Columns            []string                 `json:"columns" validate:"required,min=1"`
	Rows               []map[string]textValue `json:"rows"`
	SaveMode           string                 `json:"save_mode" validate:"omitempty,oneof=overwrite new_output rename_source"`
	OldFilename        string                 `json:"old_filename" validate:"omitempty,filename"`
	IsNewTable         bool                   `json:"is_new_table"`
	OverwriteConfirmed bool                   `json:"overwrite_confirmed"`
}

// rows keeps each cell as the text the client sent so long numbers survive
func (s saveRequest) rows() []map[string]interface{} {
	out := make([]map[string]interface{}, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = make(map[string]interface{}, len(row))
		for k, v := range row {
			out[i][k] = string(v)
		}
	}
	return out
}
