package main

import (
	"fmt"

	aws "github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
	"github.com/duderman/sesinbox/internal/stack"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		s, err := loadSettings(ctx)
		if err != nil {
			return err
		}
		return provision(ctx, s)
	})
}

func provision(ctx *pulumi.Context, s settings) error {
	project := ctx.Project()
	stackName := ctx.Stack()

	// Account and region are passed through as given; SES and IAM reject bad values at apply time.
	if s.Account == "" {
		if err := ctx.Log.Warn(configNamespace+":account is not set; the bucket policy and invoke permission will carry an empty account", nil); err != nil {
			return err
		}
	}
	if s.Region == "" {
		if err := ctx.Log.Warn("no region configured; the invoke permission source ARN will carry an empty region", nil); err != nil {
			return err
		}
	}

	providerArgs := &aws.ProviderArgs{
		DefaultTags: &aws.ProviderDefaultTagsArgs{
			Tags: pulumi.StringMap{
				"Project":   pulumi.String(project),
				"Stack":     pulumi.String(stackName),
				"ManagedBy": pulumi.String("Pulumi"),
			},
		},
	}
	if s.Region != "" {
		providerArgs.Region = pulumi.String(s.Region)
	}
	prov, err := aws.NewProvider(ctx, "prov", providerArgs)
	if err != nil {
		return err
	}

	g := pipeline.Define(fmt.Sprintf("%s-%s", project, stackName), s.environment(), s.pipelineOptions()...)

	p, err := stack.Deploy(ctx, g, s.stackOptions(), pulumi.Provider(prov))
	if err != nil {
		return err
	}

	ctx.Export("bucketName", p.Storage.Bucket.Bucket)
	ctx.Export("functionName", p.Function().Function.Name)
	ctx.Export("ruleSetName", p.RuleSet.RuleSet.RuleSetName)
	ctx.Export("ruleName", pulumi.String(g.DeliveryRule().Name))
	ctx.Export("account", pulumi.String(s.Account))
	ctx.Export("region", pulumi.String(s.Region))
	if s.EmailIdentity != "" {
		ctx.Export("emailIdentity", pulumi.String(s.EmailIdentity))
	}
	return nil
}
