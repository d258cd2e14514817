package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileValidator_ValidateName(t *testing.T) {
	v := NewFileValidator([]string{"csv", "xlsx"}, nil)

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"plain", "upload_1700000000.csv", false},
		{"unicode", "成绩表.xlsx", false},
		{"empty", "  ", true},
		{"traversal", "../secret.csv", true},
		{"nested", "a/b.csv", true},
		{"windows separator", `a\b.csv`, true},
		{"dot dot", "..", true},
		{"excel lock file", "~$book.xlsx", true},
		{"control character", "a\x00.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateExtension(t *testing.T) {
	v := NewFileValidator([]string{"csv", "xls", "xlsx"}, nil)

	assert.NoError(t, v.ValidateExtension("a.CSV"))
	assert.NoError(t, v.ValidateExtension("a.xls"))
	assert.Error(t, v.ValidateExtension("a.exe"))
	assert.Error(t, v.ValidateExtension("noext"))
	assert.Error(t, v.ValidateUpload("../a.csv"))
	assert.NoError(t, v.ValidateUpload("a.xlsx"))
}
