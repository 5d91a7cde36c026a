// ABOUTME: Formula surface of the phone pack.
// ABOUTME: Validation, formatting, and metadata lookup over parsed numbers.

package phone

import (
	"context"
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/2389/packkit/packs/core"
)

var outputFormats = map[string]phonenumbers.PhoneNumberFormat{
	"e164":          phonenumbers.E164,
	"international": phonenumbers.INTERNATIONAL,
	"national":      phonenumbers.NATIONAL,
	"rfc3966":       phonenumbers.RFC3966,
}

var numberTypeNames = map[phonenumbers.PhoneNumberType]string{
	phonenumbers.FIXED_LINE:           "fixedLine",
	phonenumbers.MOBILE:               "mobile",
	phonenumbers.FIXED_LINE_OR_MOBILE: "fixedLineOrMobile",
	phonenumbers.TOLL_FREE:            "tollFree",
	phonenumbers.PREMIUM_RATE:         "premiumRate",
	phonenumbers.SHARED_COST:          "sharedCost",
	phonenumbers.VOIP:                 "voip",
	phonenumbers.PERSONAL_NUMBER:      "personalNumber",
	phonenumbers.PAGER:                "pager",
	phonenumbers.UAN:                  "uan",
	phonenumbers.VOICEMAIL:            "voicemail",
	phonenumbers.UNKNOWN:              "unknown",
}

func (p *Pack) Formulas() []core.Formula {
	return []core.Formula{
		{
			Name:        "IsValidNumber",
			Description: "Whether a phone number is valid.",
			Parameters: []core.Parameter{
				{Name: "number", Type: "string", Description: "The phone number to check."},
				{Name: "regionCode", Type: "string", Description: "Default region for numbers without a country code.", Optional: true},
			},
			Execute: isValidNumber,
		},
		{
			Name:        "FormatNumber",
			Description: "Format a phone number as e164, international, national, or rfc3966.",
			Parameters: []core.Parameter{
				{Name: "number", Type: "string", Description: "The phone number to format."},
				{Name: "format", Type: "string", Description: "Output format."},
				{Name: "regionCode", Type: "string", Description: "Default region for numbers without a country code.", Optional: true},
			},
			Execute: formatNumber,
		},
		{
			Name:        "NumberMetadata",
			Description: "Metadata about a phone number: country code, region, and type.",
			Parameters: []core.Parameter{
				{Name: "number", Type: "string", Description: "The phone number to inspect."},
				{Name: "regionCode", Type: "string", Description: "Default region for numbers without a country code.", Optional: true},
			},
			Execute: numberMetadata,
		},
	}
}

func parseArgs(args map[string]any) (*phonenumbers.PhoneNumber, error) {
	raw, ok := args["number"].(string)
	if !ok || raw == "" {
		return nil, &core.UserVisibleError{Message: `missing required parameter "number"`}
	}
	region, _ := args["regionCode"].(string)

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return nil, &core.UserVisibleError{Message: fmt.Sprintf("could not parse %q", raw), Err: err}
	}
	return num, nil
}

func isValidNumber(ctx context.Context, args map[string]any) (any, error) {
	num, err := parseArgs(args)
	if err != nil {
		// Unparseable input is simply not a valid number
		return false, nil
	}
	return phonenumbers.IsValidNumber(num), nil
}

func formatNumber(ctx context.Context, args map[string]any) (any, error) {
	num, err := parseArgs(args)
	if err != nil {
		return nil, err
	}

	name, _ := args["format"].(string)
	format, ok := outputFormats[name]
	if !ok {
		return nil, &core.UserVisibleError{Message: fmt.Sprintf("unknown format %q; use e164, international, national, or rfc3966", name)}
	}
	return phonenumbers.Format(num, format), nil
}

func numberMetadata(ctx context.Context, args map[string]any) (any, error) {
	num, err := parseArgs(args)
	if err != nil {
		return nil, err
	}

	return core.Item{
		"countryCode": int(num.GetCountryCode()),
		"regionCode":  phonenumbers.GetRegionCodeForNumber(num),
		"numberType":  numberTypeNames[phonenumbers.GetNumberType(num)],
		"possible":    phonenumbers.IsPossibleNumber(num),
		"valid":       phonenumbers.IsValidNumber(num),
		"e164":        phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}
