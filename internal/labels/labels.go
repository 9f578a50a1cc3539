// Package labels renders printable roll-label sheets: a fixed grid of
// sequentially numbered labels, each carrying the zero-padded roll
// number as text and as a code128 barcode.
package labels

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
)

// Defaults used when the submitted start/count values do not parse.
// One Avery L7651 sheet holds 65 labels.
const (
	DefaultStart = 1
	DefaultCount = 65
)

// Sheet describes a label-sheet product: grid dimensions and cell
// geometry in millimeters on an A4 page.
type Sheet struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	MarginX    float64
	MarginY    float64
	GapX       float64
	GapY       float64
}

// AveryL7651 is the sheet the app prints on: 5x13 labels of 38x21mm.
func AveryL7651() Sheet {
	return Sheet{
		Columns:    5,
		Rows:       13,
		CellWidth:  38,
		CellHeight: 21,
		MarginX:    10,
		MarginY:    12,
		GapX:       2,
		GapY:       0,
	}
}

// Capacity returns the number of labels per page.
func (s Sheet) Capacity() int { return s.Columns * s.Rows }

// cellOrigin returns the top-left corner of the i-th cell in page-local
// coordinates; i wraps around the page capacity.
func (s Sheet) cellOrigin(i int) (x, y float64) {
	col := i % s.Columns
	row := (i / s.Columns) % s.Rows
	x = s.MarginX + float64(col)*(s.CellWidth+s.GapX)
	y = s.MarginY + float64(row)*(s.CellHeight+s.GapY)
	return x, y
}

// Cell geometry: the text baseline sits 7mm below the cell top and the
// 8mm-tall barcode starts 9mm below it, leaving 4mm at the bottom.
const (
	textBaseline  = 7.0
	barcodeTop    = 9.0
	barcodeHeight = 8.0
	barcodeWidth  = 24.0
)

// ParseRequest interprets form input for start and count, falling back
// to the defaults when either value is missing or not a positive
// number.
func ParseRequest(startStr, countStr string) (start, count int) {
	start, err := strconv.Atoi(startStr)
	if err != nil || start <= 0 {
		return DefaultStart, DefaultCount
	}
	count, err = strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		return DefaultStart, DefaultCount
	}
	return start, count
}

// Generate writes a PDF with count sequential labels beginning at
// start, breaking onto additional pages as each sheet fills.
func Generate(w io.Writer, sheet Sheet, start, count int) error {
	return build(sheet, start, count).Output(w)
}

func build(sheet Sheet, start, count int) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "B", 8)
	pdf.AddPage()

	num := start
	for i := 0; i < count; i++ {
		if i > 0 && i%sheet.Capacity() == 0 {
			pdf.AddPage()
		}
		x, y := sheet.cellOrigin(i)

		text := fmt.Sprintf("ROLL #%04d", num)
		tw := pdf.GetStringWidth(text)
		pdf.Text(x+(sheet.CellWidth-tw)/2, y+textBaseline, text)

		code := fmt.Sprintf("%04d", num)
		key := barcode.RegisterCode128(pdf, code)
		barcode.Barcode(pdf, key, x+(sheet.CellWidth-barcodeWidth)/2, y+barcodeTop, barcodeWidth, barcodeHeight, false)

		num++
	}
	return pdf
}

// End returns the number of the last label on a sheet run starting at
// start with count labels, used for the download filename.
func End(start, count int) int { return start + count - 1 }
