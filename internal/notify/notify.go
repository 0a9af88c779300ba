// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package notify

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/austria-address-helper/internal/address"
	"github.com/wneessen/austria-address-helper/internal/geocode"
)

// sourceDateLayout is the layout of the address date delivered by the geocoding service
const sourceDateLayout = "2006-01-02"

// Notifier writes user facing messages about resolution outcomes
type Notifier struct {
	out       io.Writer
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

func New(out io.Writer, localizer *spreak.Localizer) *Notifier {
	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	return &Notifier{
		out:       out,
		localizer: localizer,
		humanizer: collection.CreateHumanizer(localizer.Language()),
	}
}

// Report writes the message matching the outcome of err
func (n *Notifier) Report(resolved address.Resolved, err error) {
	switch address.Classify(err) {
	case address.OutcomeSuccess:
		n.Success(resolved)
	case address.OutcomeNoResult:
		n.message(n.localizer.Get("No address was found for this object."))
	case address.OutcomeCancelled:
		n.message(n.localizer.Get("No address type selected. Aborting."))
	default:
		n.Error(err)
	}
}

// Success reports a resolved address together with the distance to the object
func (n *Notifier) Success(resolved address.Resolved) {
	l := n.localizer
	labels := alignLabels(
		l.Get("Distance between building center and address coordinates:"),
		l.Get("Address data as of:"),
	)
	n.message(fmt.Sprintf("%s\n  %s\n  %s %s %s\n  %s %s",
		l.Get("Successfully added address to selected object:"),
		resolved.String(),
		labels[0],
		FormatDistance(resolved.Distance),
		l.Get("meters"),
		labels[1],
		n.formatSourceDate(resolved.SourceDate),
	))
}

// Error reports a failure. Transport and response errors get a dedicated message.
func (n *Notifier) Error(err error) {
	var transportErr *geocode.TransportError
	var malformedErr *geocode.MalformedResponseError
	switch {
	case errors.As(err, &malformedErr):
		n.message(fmt.Sprintf("%s %s", n.localizer.Get("The address service returned an invalid answer:"), err))
	case errors.As(err, &transportErr):
		n.message(fmt.Sprintf("%s %s", n.localizer.Get("The address service could not be reached:"), err))
	default:
		n.message(fmt.Sprintf("%s %s", n.localizer.Get("An unexpected error occurred:"), err))
	}
}

// Message writes an arbitrary localized message
func (n *Notifier) Message(msg localize.Singular) {
	n.message(n.localizer.Get(msg))
}

func (n *Notifier) message(msg string) {
	_, _ = fmt.Fprintf(n.out, "%s: %s\n", n.localizer.Get("Austria Address Helper"), msg)
}

// formatSourceDate renders the address date in the user's locale. Unparsable dates are
// shown as delivered.
func (n *Notifier) formatSourceDate(val string) string {
	date, err := time.Parse(sourceDateLayout, val)
	if err != nil {
		return val
	}
	return n.humanizer.FormatTime(date, humanize.DateFormat)
}

// alignLabels pads all labels to the terminal width of the widest one
func alignLabels(labels ...string) []string {
	width := 0
	for _, label := range labels {
		width = max(width, runewidth.StringWidth(label))
	}
	aligned := make([]string, len(labels))
	for i, label := range labels {
		aligned[i] = runewidth.FillRight(label, width)
	}
	return aligned
}

// FormatDistance formats meters with at most two decimal places. Halves are rounded to
// the even neighbour.
func FormatDistance(meters float64) string {
	return strconv.FormatFloat(math.RoundToEven(meters*100)/100, 'f', -1, 64)
}
