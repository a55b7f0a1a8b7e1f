package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// logf is swapped out in tests.
var logf = log.Printf

// HandleRequest logs the SES notification it was invoked with. SES calls it
// asynchronously, so the return value is ignored.
func HandleRequest(ctx context.Context, evt events.SimpleEmailEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	logf("hello world: %s", body)
	for _, rec := range evt.Records {
		m := rec.SES.Mail
		logf("info: message %s from %s to %v", m.MessageID, m.Source, m.Destination)
	}
	return nil
}

func main() { lambda.Start(HandleRequest) }
