package stack

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/duderman/sesinbox/internal/pipeline"
)

type Storage struct {
	Bucket *s3.Bucket
	Policy *s3.BucketPolicy
}

func configureStorage(ctx *pulumi.Context, g *pipeline.Graph, o Options, opts ...pulumi.ResourceOption) (*Storage, error) {
	name := resourceName(g.Identifier, g.Bucket.LogicalName)

	// Mail is never deleted together with the stack.
	bucket, err := s3.NewBucket(ctx, name, &s3.BucketArgs{
		Bucket: pulumi.String(g.Bucket.BucketName),
	}, with(opts, pulumi.RetainOnDelete(true))...)
	if err != nil {
		return nil, err
	}

	_, err = s3.NewBucketPublicAccessBlock(ctx, name+"-pab", &s3.BucketPublicAccessBlockArgs{
		Bucket:                bucket.ID(),
		BlockPublicAcls:       pulumi.Bool(true),
		BlockPublicPolicy:     pulumi.Bool(true),
		IgnorePublicAcls:      pulumi.Bool(true),
		RestrictPublicBuckets: pulumi.Bool(true),
	}, opts...)
	if err != nil {
		return nil, err
	}

	if o.RetentionDays > 0 {
		_, err = s3.NewBucketLifecycleConfigurationV2(ctx, name+"-lifecycle", &s3.BucketLifecycleConfigurationV2Args{
			Bucket: bucket.ID(),
			Rules: s3.BucketLifecycleConfigurationV2RuleArray{
				&s3.BucketLifecycleConfigurationV2RuleArgs{
					Id:     pulumi.String("expire-received-mail"),
					Status: pulumi.String("Enabled"),
					Filter: &s3.BucketLifecycleConfigurationV2RuleFilterArgs{
						Prefix: pulumi.String(""),
					},
					Expiration: &s3.BucketLifecycleConfigurationV2RuleExpirationArgs{
						Days: pulumi.Int(o.RetentionDays),
					},
				},
			},
		}, opts...)
		if err != nil {
			return nil, err
		}
	}

	doc, err := policyJSON(ctx, g.Bucket.PolicyDocument())
	if err != nil {
		return nil, err
	}
	policy, err := s3.NewBucketPolicy(ctx, name+"-policy", &s3.BucketPolicyArgs{
		Bucket: bucket.ID(),
		Policy: pulumi.String(doc),
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &Storage{Bucket: bucket, Policy: policy}, nil
}
