package main

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/duderman/sesinbox/internal/pipeline"
	"github.com/duderman/sesinbox/internal/stack"
)

const configNamespace = "sesinbox"

// settings is the stack configuration. Every key is optional.
type settings struct {
	Account           string
	Region            string
	IDStrategy        string
	IDSuffix          string
	HandlerArchive    string
	DropSpam          bool
	SpamFilterArchive string
	ActivateRuleSet   bool
	RetentionDays     int
	EmailIdentity     string
}

// loadSettings reads the sesinbox namespace. Types are declared in Pulumi.yaml and
// enforced by the engine, so only value ranges are checked here.
func loadSettings(ctx *pulumi.Context) (settings, error) {
	cfg := config.New(ctx, configNamespace)
	str := func(key, def string) string {
		if v := cfg.Get(key); v != "" {
			return v
		}
		return def
	}

	s := settings{
		Account:           cfg.Get("account"),
		Region:            str("region", config.Get(ctx, "aws:region")),
		IDStrategy:        str("idStrategy", "timestamp"),
		IDSuffix:          cfg.Get("idSuffix"),
		HandlerArchive:    cfg.Get("handlerArchive"),
		DropSpam:          cfg.GetBool("dropSpam"),
		SpamFilterArchive: str("spamFilterArchive", "../dist/drop_spam.zip"),
		ActivateRuleSet:   cfg.GetBool("activateRuleSet"),
		RetentionDays:     cfg.GetInt("retentionDays"),
		EmailIdentity:     cfg.Get("emailIdentity"),
	}
	if s.RetentionDays < 0 {
		return s, fmt.Errorf("%s:retentionDays: must not be negative, got %d", configNamespace, s.RetentionDays)
	}
	if _, err := s.idGenerator(); err != nil {
		return s, err
	}
	return s, nil
}

// idGenerator returns nil for the default timestamp strategy.
func (s settings) idGenerator() (pipeline.IDGenerator, error) {
	switch s.IDStrategy {
	case "timestamp":
		return nil, nil
	case "uuid":
		return pipeline.UUIDIDs(), nil
	case "fixed":
		if s.IDSuffix == "" {
			return nil, fmt.Errorf("%s:idSuffix is required when idStrategy is fixed", configNamespace)
		}
		return pipeline.FixedID(s.IDSuffix), nil
	default:
		return nil, fmt.Errorf("%s:idStrategy: unknown strategy %q", configNamespace, s.IDStrategy)
	}
}

func (s settings) environment() pipeline.Environment {
	return pipeline.Environment{Account: s.Account, Region: s.Region}
}

func (s settings) pipelineOptions() []pipeline.Option {
	var opts []pipeline.Option
	if ids, _ := s.idGenerator(); ids != nil {
		opts = append(opts, pipeline.WithIDGenerator(ids))
	}
	if s.HandlerArchive != "" {
		opts = append(opts, pipeline.WithHandlerArchive(s.HandlerArchive))
	}
	if s.DropSpam {
		opts = append(opts, pipeline.WithDropSpam(s.SpamFilterArchive))
	}
	if s.ActivateRuleSet {
		opts = append(opts, pipeline.WithActiveRuleSet())
	}
	return opts
}

func (s settings) stackOptions() stack.Options {
	return stack.Options{RetentionDays: s.RetentionDays, EmailIdentity: s.EmailIdentity}
}
