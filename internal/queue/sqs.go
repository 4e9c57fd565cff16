package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the slice of the SQS client used by the consumer.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSConsumer implements Consumer against an SQS-compatible queue.
type SQSConsumer struct {
	client     SQSAPI
	queueURL   string
	waitTime   time.Duration
	visibility time.Duration
}

// NewSQSConsumer wires a consumer for the given queue URL.
func NewSQSConsumer(client SQSAPI, queueURL string, waitTime, visibility time.Duration) *SQSConsumer {
	return &SQSConsumer{
		client:     client,
		queueURL:   queueURL,
		waitTime:   waitTime,
		visibility: visibility,
	}
}

// Receive long-polls for a single message with the configured visibility
// timeout. An empty poll returns (nil, nil).
func (c *SQSConsumer) Receive(ctx context.Context) (*Message, error) {
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     int32(c.waitTime / time.Second),
		VisibilityTimeout:   int32(c.visibility / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("receive message: %w", err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}
	msg := out.Messages[0]
	return &Message{
		Body:  []byte(aws.ToString(msg.Body)),
		Lease: Lease{receipt: aws.ToString(msg.ReceiptHandle)},
	}, nil
}

// Renew extends the message's visibility timeout.
func (c *SQSConsumer) Renew(ctx context.Context, lease Lease, timeout time.Duration) error {
	_, err := c.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(c.queueURL),
		ReceiptHandle:     aws.String(lease.receipt),
		VisibilityTimeout: int32(timeout / time.Second),
	})
	if err != nil {
		return fmt.Errorf("change message visibility: %w", err)
	}
	return nil
}

// Delete removes the message from the queue permanently.
func (c *SQSConsumer) Delete(ctx context.Context, lease Lease) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: aws.String(lease.receipt),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
