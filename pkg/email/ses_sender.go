package email

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of *sesv2.Client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers messages through Amazon SES v2 as raw MIME, so inline
// images and the plain-text alternative are preserved exactly.
type SESSender struct {
	client    SESAPI
	configSet string
	now       func() time.Time
}

// NewSESSender builds an SES client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewSESSender(ctx context.Context, cfg Config) (*SESSender, error) {
	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("%w: AWS region is required", ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrInvalidConfig, err)
	}

	return NewSESSenderWithClient(sesv2.NewFromConfig(awsCfg), cfg.SESConfigSet), nil
}

// NewSESSenderWithClient wraps an existing client, e.g. a test double.
func NewSESSenderWithClient(client SESAPI, configSet string) *SESSender {
	return &SESSender{client: client, configSet: configSet, now: time.Now}
}

// SES tag values are limited to this alphabet.
var sesTagRegex = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// Send implements Sender.
func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	raw, err := msg.MIME(s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if tag := sesTagRegex.ReplaceAllString(msg.Tag, "_"); tag != "" {
		input.EmailTags = []types.MessageTag{
			{Name: aws.String("template"), Value: aws.String(tag)},
		}
	}
	if s.configSet != "" {
		input.ConfigurationSetName = aws.String(s.configSet)
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("%w: ses: %w", ErrFailedToSendEmail, err)
	}
	return nil
}
