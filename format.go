package memgrid

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCell renders a value for display according to the column type.
func FormatCell(col Column, v interface{}) string {
	if v == nil {
		return ""
	}
	switch col.Type {
	case TypeCurrency:
		if f, ok := numeric(v); ok {
			return "$" + groupNumber(f)
		}
	case TypePercentage:
		if f, ok := numeric(v); ok {
			sign := ""
			if f > 0 {
				sign = "+"
			}
			return sign + Stringify(f) + "%"
		}
	case TypeStatus:
		if k, f := classify(v); k == kindNumber {
			if f == 0 {
				return "Low Risk"
			}
			return "High Risk"
		}
	case TypeDate:
		switch t := v.(type) {
		case time.Time:
			return t.Format("2006-01-02 15:04")
		case *time.Time:
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		}
	}
	return Stringify(v)
}

func groupNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return printer.Sprintf("%d", int64(f))
	}
	return printer.Sprintf("%.2f", f)
}
