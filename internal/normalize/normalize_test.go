package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/John-Robertt/nftcsv/internal/domain"
)

func TestRecord_Scenario(t *testing.T) {
	got := Record(domain.RawRow{
		domain.ColNo:              "1",
		domain.ColTokenID:         "42",
		domain.ColName:            "Cool Ape",
		domain.ColImageURL:        "http://img/1.png",
		domain.ColContractAddress: "0xABC123",
	})

	want := domain.Record{
		TokenAddress: "0xabc123",
		TokenID:      "42",
		Name:         "Cool Ape",
		ImageURL:     "http://img/1.png",
		Metadata:     domain.Metadata{Name: "Cool Ape", Image: "http://img/1.png"},
	}
	assert.Equal(t, want, got)
}

func TestRecord_MissingColumnsDefaultEmpty(t *testing.T) {
	got := Record(domain.RawRow{domain.ColTokenID: "9"})

	assert.Equal(t, "", got.TokenAddress)
	assert.Equal(t, "9", got.TokenID)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "", got.ImageURL)
	assert.Equal(t, domain.Metadata{}, got.Metadata)
}

func TestRecord_EmptyContractAddress(t *testing.T) {
	got := Record(domain.RawRow{domain.ColContractAddress: ""})
	assert.Equal(t, "", got.TokenAddress)
}

func TestRecord_NoOtherTransformation(t *testing.T) {
	// token id / name / url 不做任何修整（包括大小写与空白）。
	row := domain.RawRow{
		domain.ColTokenID:  " 0x0A ",
		domain.ColName:     "  MiXeD Case ",
		domain.ColImageURL: "HTTP://IMG/A.PNG",
	}
	got := Record(row)
	assert.Equal(t, " 0x0A ", got.TokenID)
	assert.Equal(t, "  MiXeD Case ", got.Name)
	assert.Equal(t, "HTTP://IMG/A.PNG", got.ImageURL)
}

func TestAddress_Idempotent(t *testing.T) {
	for _, s := range []string{"0xABCdef", "", "0xabc", "ÄÖÜ"} {
		once := Address(s)
		assert.Equal(t, once, Address(once), "input=%q", s)
	}
}

func TestAll_OrderCountAndMirroring(t *testing.T) {
	rows := []domain.RawRow{
		{domain.ColTokenID: "3", domain.ColName: "c", domain.ColImageURL: "u3"},
		{domain.ColTokenID: "1"},
		{domain.ColTokenID: "2", domain.ColName: "b", domain.ColContractAddress: "0xB"},
	}

	got := All(rows)
	assert.Len(t, got, len(rows))
	for i, r := range got {
		assert.Equal(t, rows[i].Get(domain.ColTokenID), r.TokenID)
		assert.Equal(t, r.Name, r.Metadata.Name)
		assert.Equal(t, r.ImageURL, r.Metadata.Image)
	}
}

func TestAll_EmptyIsNonNil(t *testing.T) {
	got := All(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
