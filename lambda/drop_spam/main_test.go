package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func record(spam, virus string) events.SimpleEmailRecord {
	var rec events.SimpleEmailRecord
	rec.SES.Mail.MessageID = "m-1"
	rec.SES.Receipt.SpamVerdict.Status = spam
	rec.SES.Receipt.VirusVerdict.Status = virus
	return rec
}

func TestHandler(t *testing.T) {
	cases := []struct {
		name    string
		records []events.SimpleEmailRecord
		stop    bool
	}{
		{"clean", []events.SimpleEmailRecord{record("PASS", "PASS")}, false},
		{"spam", []events.SimpleEmailRecord{record("FAIL", "PASS")}, true},
		{"virus", []events.SimpleEmailRecord{record("PASS", "FAIL")}, true},
		{"gray", []events.SimpleEmailRecord{record("GRAY", "PROCESSING_FAILED")}, false},
		{"second record", []events.SimpleEmailRecord{record("PASS", "PASS"), record("FAIL", "PASS")}, true},
		{"no records", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := handler(context.Background(), events.SimpleEmailEvent{Records: tc.records})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !tc.stop {
				if got != nil {
					t.Fatalf("got %+v want nil", got)
				}
				return
			}
			if got == nil || got.Disposition != events.SimpleEmailStopRuleSet {
				t.Fatalf("got %+v want STOP_RULE_SET", got)
			}
		})
	}
}
