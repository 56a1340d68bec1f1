package services

import (
	"fmt"
	"strings"
)

const (
	qrSize    = 200
	qrModules = 21
)

// qrLabel derives the guest label from the submission time: "QR" plus the last
// six digits of the millisecond timestamp.
func qrLabel(unixMilli int64) string {
	digits := fmt.Sprintf("%06d", unixMilli)
	return "QR" + digits[len(digits)-6:]
}

// qrPatternSVG renders a 21x21 grid derived from label. It looks like a QR
// symbol but encodes nothing; module i is filled when (label[i%len]+i) is even.
func qrPatternSVG(label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, qrSize, qrSize, qrSize, qrSize)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	if label != "" {
		cell := float64(qrSize) / qrModules
		for i := range qrModules * qrModules {
			if (int(label[i%len(label)])+i)%2 != 0 {
				continue
			}
			row, col := i/qrModules, i%qrModules
			fmt.Fprintf(&b, `<rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="#000000"/>`,
				float64(col)*cell, float64(row)*cell, cell, cell)
		}
	}
	b.WriteString(`</svg>`)
	return b.String()
}
