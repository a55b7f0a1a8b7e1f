package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

const verdictFail = "FAIL"

// handler stops the rest of the rule set for mail that SES flagged as spam or as
// carrying a virus. A nil disposition lets SES continue with the next rule.
func handler(ctx context.Context, evt events.SimpleEmailEvent) (*events.SimpleEmailDisposition, error) {
	for _, rec := range evt.Records {
		r := rec.SES.Receipt
		if r.SpamVerdict.Status == verdictFail || r.VirusVerdict.Status == verdictFail {
			log.Printf("info: dropping message %s (spam=%s virus=%s)",
				rec.SES.Mail.MessageID, r.SpamVerdict.Status, r.VirusVerdict.Status)
			return &events.SimpleEmailDisposition{Disposition: events.SimpleEmailStopRuleSet}, nil
		}
	}
	return nil, nil
}

func main() { lambda.Start(handler) }
