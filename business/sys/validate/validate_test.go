package validate_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/chatchain/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type request struct {
	From string `json:"from_address" validate:"required"`
	To   string `json:"to_address" validate:"required,nefield=From"`
	Kind string `json:"connection_type" validate:"required,oneof=p2p relay"`
}

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate request models.")
	{
		tt := []struct {
			name   string
			req    request
			fields []string
		}{
			{"valid", request{From: "a", To: "b", Kind: "p2p"}, nil},
			{"empty", request{}, []string{"from_address", "to_address", "connection_type"}},
			{"self", request{From: "a", To: "a", Kind: "relay"}, []string{"to_address"}},
			{"kind", request{From: "a", To: "b", Kind: "smoke"}, []string{"connection_type"}},
		}

		for testID, test := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen checking the %s request.", testID, test.name)
				{
					err := validate.Check(test.req)

					if len(test.fields) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould pass validation: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
						return
					}

					if !validate.IsFieldErrors(err) {
						t.Fatalf("\t%s\tTest %d:\tShould return field errors: %v", failed, testID, err)
					}

					fields := validate.GetFieldErrors(err).Fields()
					if len(fields) != len(test.fields) {
						t.Fatalf("\t%s\tTest %d:\tShould fail %d fields: %v", failed, testID, len(test.fields), fields)
					}
					for _, name := range test.fields {
						if fields[name] == "" {
							t.Fatalf("\t%s\tTest %d:\tShould explain the %s failure: %v", failed, testID, name, fields)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould name the failing fields by their json names.", success, testID)
				}
			}
			t.Run(test.name, tf)
		}

		if validate.IsFieldErrors(errors.New("plain")) || validate.GetFieldErrors(errors.New("plain")) != nil {
			t.Fatalf("\t%s\tShould not treat a plain error as field errors.", failed)
		}
	}
}
