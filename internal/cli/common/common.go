package common

import (
	"gopkg.in/errgo.v2/fmt/errors"
	"strings"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
	"wipeit/internal/env"
	"wipeit/internal/lib/retry"
	strings2 "wipeit/internal/lib/strings"
)

var OutputFormats = []string{"table", "json"}

func ValidateProvider() error {
	if env.Config.Provider != "aws" {
		return errors.Newf("cloud provider '%s' is not supported with this action", env.Config.Provider)
	}
	return nil
}

func ValidateOutput(output string) error {
	if !strings2.AnyOf(output, OutputFormats...) {
		return errors.Newf("unsupported output format '%s', expected one of: %s", output, strings.Join(OutputFormats, ", "))
	}
	return nil
}

func RetryPolicy() retry.Policy {
	policy := retry.DefaultPolicy()
	if env.Config.RetryAttempts > 0 {
		policy.Attempts = env.Config.RetryAttempts
	}
	if env.Config.RetryDelay > 0 {
		policy.BaseDelay = env.Config.RetryDelay
	}
	return policy
}

func CleanerOptions() cleaner.Options {
	return cleaner.Options{
		EbsWaitAttempts: env.Config.EbsWaitAttempts,
		EbsWaitDelay:    env.Config.EbsWaitDelay,
		S3BatchSize:     env.Config.S3BatchSize,
		Retry:           RetryPolicy(),
	}
}

// Session returns the clients for the configured profile and region.
func Session() (*connectors.SAwsSession, error) {
	if env.Config.Region == "" {
		return nil, errors.Newf("region is required, use --region or %s_REGION", env.EnvPrefix)
	}
	return connectors.GetAWSSession(env.Config.Profile, env.Config.Region)
}
