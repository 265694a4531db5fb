package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmAPI is the subset of the SSM client the ledger uses.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, in *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// SSMStore keeps the ledger in AWS Systems Manager Parameter Store as a String parameter.
type SSMStore struct {
	client ssmAPI
}

// NewSSMStore loads the default AWS credential chain for region.
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ssm: load aws config: %w", err)
	}
	return &SSMStore{client: ssm.NewFromConfig(awsCfg)}, nil
}

func (s *SSMStore) Get(ctx context.Context, key string) (int64, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{Name: aws.String(key)})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return 0, fmt.Errorf("ssm: get parameter %s: %w", key, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return 0, fmt.Errorf("ssm: parameter %s has no value", key)
	}
	v, err := strconv.ParseInt(*out.Parameter.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ssm: parameter %s is not an integer: %w", key, err)
	}
	return v, nil
}

func (s *SSMStore) Put(ctx context.Context, key string, value int64) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(key),
		Value:     aws.String(strconv.FormatInt(value, 10)),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("ssm: put parameter %s: %w", key, err)
	}
	return nil
}
