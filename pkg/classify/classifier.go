// Package classify turns one raw inbound chat event into exactly one
// domain.Event variant, or nothing. Rules are evaluated in a fixed
// first-match order: date text, certificate choice, yes/no choice, start
// command, free text. The order matters — free text is defined as "not a
// date and not a command", so the date rule must run first.
package classify

import (
	"regexp"
	"strings"

	"github.com/dmelnikov/healthwave/pkg/domain"
)

// Payload keys the transport keyboards tag their buttons with.
const (
	PayloadYesNo           = "yes_no"
	PayloadWillCertificate = "will_certificate"
)

var (
	// Day.month.year with 1-2 digit day/month, 2-4 digit year and one of
	// the separators ".", "\", "/". Matched anywhere in the text, like the
	// router it replaces.
	dateRe = regexp.MustCompile(`\d{1,2}[.\\/]\d{1,2}[.\\/]\d{2,4}`)

	// (!|/)start <ids file> <sheet url>. The second argument must carry
	// the spreadsheet URL prefix or the command is not recognized.
	startRe = regexp.MustCompile(`^[!/]start\s+(\S+)\s+(https://docs\.google\.com/\S+)`)
)

// Classify maps trimmed inbound text plus an optional keyboard payload to a
// single event. It returns nil for events matching no rule; those are
// dropped silently with no state change and no reply.
func Classify(text string, payload *domain.Payload) domain.Event {
	text = strings.TrimSpace(text)

	if dateRe.MatchString(text) {
		return domain.DateText{Text: text}
	}
	if payload != nil {
		switch payload.Key {
		case PayloadWillCertificate:
			return domain.CertificateChoice{Text: text}
		case PayloadYesNo:
			return domain.YesNoChoice{Text: text}
		}
	}
	if m := startRe.FindStringSubmatch(text); m != nil {
		return domain.StartCommand{IDsPath: m[1], SheetURL: m[2]}
	}
	if text != "" && !strings.HasPrefix(text, "!") && !strings.HasPrefix(text, "/") {
		return domain.FreeText{Text: strings.Trim(text, " @#")}
	}
	return nil
}
