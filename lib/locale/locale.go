package locale

import (
	"fmt"
	"salamyar/lib/timezone"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	rialSuffix     = "ریال"
	reviewSuffix   = "نظر"
	stockSuffix    = "عدد موجود"
	noRatingText   = "بدون امتیاز"
	productsSuffix = "محصول"
)

// Formatter renders numbers the way the web client did with
// Intl.NumberFormat('fa-IR').
type Formatter struct {
	printer *message.Printer
}

func New(tag language.Tag) Formatter {
	return Formatter{printer: message.NewPrinter(tag)}
}

var Persian = New(language.Persian)

// Number groups digits, in the locale's digits.
func (f Formatter) Number(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

func (f Formatter) plain(n int) string {
	return f.printer.Sprint(number.Decimal(n, number.NoSeparator()))
}

func (f Formatter) Price(rials int64) string {
	return fmt.Sprintf("%s %s", f.Number(rials), rialSuffix)
}

func (f Formatter) Stock(count int64) string {
	return fmt.Sprintf("%s %s", f.Number(count), stockSuffix)
}

func (f Formatter) Products(count int) string {
	return fmt.Sprintf("%s %s", f.Number(int64(count)), productsSuffix)
}

func (f Formatter) Rating(average float64, count int64) string {
	if average <= 0 {
		return noRatingText
	}
	return fmt.Sprintf(
		"%s (%s %s)",
		f.printer.Sprint(number.Decimal(average, number.MaxFractionDigits(1))),
		f.Number(count),
		reviewSuffix,
	)
}

// Date is year/month/day in the solar hijri calendar.
func (f Formatter) Date(t time.Time) string {
	year, month, day := timezone.Jalali(t)
	return fmt.Sprintf("%s/%s/%s", f.plain(year), f.plain(month), f.plain(day))
}
