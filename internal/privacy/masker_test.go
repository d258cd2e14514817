package privacy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
)

func TestMaskValue(t *testing.T) {
	m := NewMasker(config.DefaultAnalytics(), nil)

	tests := []struct {
		in   string
		want string
	}{
		{"13800001111", "1380****"},
		{"张三", "张*"},
		{"A", "A*"},
		{"王小明", "王*明"},
		{"Bob", "B*b"},
		{"  Alice  ", "Alic****"},
		{"欧阳娜娜", "欧阳娜娜****"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MaskValue(tt.in))
		})
	}
}

func TestMask(t *testing.T) {
	table, err := dataset.New(
		[]string{"姓名", "手机号", "score", "UserID"},
		[][]string{
			{"张三", "13800001111", "90", "7"},
			{"", "13900002222", "85", "12345"},
		},
		dataset.Options{IdentifierKeywords: []string{"号", "id"}},
	)
	require.NoError(t, err)

	out, cols := NewMasker(config.DefaultAnalytics(), nil).Mask(context.Background(), table)

	assert.Equal(t, []string{"姓名", "手机号", "UserID"}, cols)
	assert.Equal(t, [][]string{
		{"张*", "1380****", "90", "7*"},
		{"", "1390****", "85", "1234****"},
	}, out.Records())

	phone, _ := out.Column("手机号")
	assert.Equal(t, dataset.KindCategorical, phone.Kind)
	name, _ := out.Column("姓名")
	assert.True(t, name.IsMissing(1))

	// the source table is untouched
	assert.Equal(t, "13800001111", table.Records()[0][1])
}

func TestMask_NoSensitiveColumns(t *testing.T) {
	table, err := dataset.New([]string{"score"}, [][]string{{"1"}}, dataset.Options{})
	require.NoError(t, err)

	out, cols := NewMasker(config.DefaultAnalytics(), nil).Mask(context.Background(), table)
	assert.Empty(t, cols)
	assert.NotNil(t, cols)
	assert.Equal(t, table.Records(), out.Records())
}
