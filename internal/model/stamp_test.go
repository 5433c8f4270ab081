package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStampType(t *testing.T) {
	got, err := ParseStampType(" Hospital ")
	require.NoError(t, err)
	assert.Equal(t, StampTypeHospital, got)

	got, err = ParseStampType("DOCTOR")
	require.NoError(t, err)
	assert.Equal(t, StampTypeDoctor, got)

	_, err = ParseStampType("notary")
	assert.Error(t, err)
}

func TestParseEnumsDefaultOnEmpty(t *testing.T) {
	style, err := ParseStampStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleClassic, style)

	border, err := ParseBorderStyle("")
	require.NoError(t, err)
	assert.Equal(t, BorderDouble, border)

	color, err := ParseStampColor("")
	require.NoError(t, err)
	assert.Equal(t, ColorBlue, color)
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	_, err := ParseStampStyle("baroque")
	assert.Error(t, err)
	_, err = ParseBorderStyle("quadruple")
	assert.Error(t, err)
	_, err = ParseStampColor("pink")
	assert.Error(t, err)
}

func TestPlacementInvariants(t *testing.T) {
	var p StampPlacement

	p.ClampPosition(-1, 2)
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 1.0, p.Y)

	p.ClampSize(1, 10_000)
	assert.Equal(t, MinPlacementDim, p.Width)
	assert.Equal(t, MaxPlacementDim, p.Height)

	p.SetRotation(-45)
	assert.Equal(t, 315.0, p.Rotation)
	p.SetRotation(720)
	assert.Equal(t, 0.0, p.Rotation)

	p.SetOpacity(2)
	assert.Equal(t, 1.0, p.Opacity)
	p.SetOpacity(-0.1)
	assert.Equal(t, 0.0, p.Opacity)
}

func TestPageByNumber(t *testing.T) {
	doc := &DocumentModel{
		PageCount: 2,
		Pages:     []*Page{{Number: 1}, {Number: 2}},
	}
	assert.Equal(t, 1, doc.PageByNumber(1).Number)
	assert.Equal(t, 2, doc.PageByNumber(2).Number)
	assert.Nil(t, doc.PageByNumber(0))
	assert.Nil(t, doc.PageByNumber(3))

	var nilDoc *DocumentModel
	assert.Nil(t, nilDoc.PageByNumber(1))
}

func TestDocumentSummary(t *testing.T) {
	doc := &DocumentModel{
		Type:      DocumentTypePDF,
		PageCount: 2,
		Filename:  "report.pdf",
		Pages: []*Page{
			{Number: 1, Width: 100, Height: 140},
			{Number: 2, Width: 100, Height: 140, Placeholder: true},
		},
	}
	s := doc.Summary()
	assert.Equal(t, DocumentTypePDF, s.Type)
	assert.Equal(t, 2, s.PageCount)
	require.Len(t, s.Pages, 2)
	assert.True(t, s.Pages[1].Placeholder)
}
