package stack

import (
	"testing"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/stretchr/testify/assert"

	"github.com/duderman/sesinbox/internal/pipeline"
)

func TestPolicyStatement_SortsPrincipalsAndConditions(t *testing.T) {
	got := policyStatement(pipeline.PolicyStatement{
		Sid:    "Mixed",
		Effect: pipeline.EffectDeny,
		Principals: []pipeline.Principal{
			pipeline.ServicePrincipal("ses.amazonaws.com"),
			pipeline.ServicePrincipal("lambda.amazonaws.com"),
		},
		Actions:   []string{"s3:PutObject", "s3:GetObject"},
		Resources: []string{"arn:aws:s3:::a/*", "arn:aws:s3:::b/*"},
		Conditions: pipeline.Conditions{
			"StringLike":   {"AWS:SourceArn": "arn:aws:ses:*"},
			"StringEquals": {"aws:SourceVpc": "vpc-1", "AWS:SourceAccount": "1"},
		},
	})

	assert.Equal(t, "Mixed", *got.Sid)
	assert.Equal(t, "Deny", *got.Effect)
	assert.Equal(t, []string{"s3:PutObject", "s3:GetObject"}, got.Actions)
	assert.Equal(t, []string{"arn:aws:s3:::a/*", "arn:aws:s3:::b/*"}, got.Resources)
	assert.Equal(t, []iam.GetPolicyDocumentStatementPrincipal{{
		Type:        "Service",
		Identifiers: []string{"lambda.amazonaws.com", "ses.amazonaws.com"},
	}}, got.Principals)
	assert.Equal(t, []iam.GetPolicyDocumentStatementCondition{
		{Test: "StringEquals", Variable: "AWS:SourceAccount", Values: []string{"1"}},
		{Test: "StringEquals", Variable: "aws:SourceVpc", Values: []string{"vpc-1"}},
		{Test: "StringLike", Variable: "AWS:SourceArn", Values: []string{"arn:aws:ses:*"}},
	}, got.Conditions)
}

func TestPolicyStatement_OmitsEmptyParts(t *testing.T) {
	got := policyStatement(pipeline.PolicyStatement{
		Effect:  pipeline.EffectAllow,
		Actions: []string{"sts:AssumeRole"},
	})

	assert.Nil(t, got.Sid)
	assert.Nil(t, got.Principals)
	assert.Nil(t, got.Conditions)
	assert.Nil(t, got.Resources)
}
