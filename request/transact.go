package request

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Transactions are capped by the service at 100 items per call.
const maxTransactItems = 100

// TransactWrite collects writes into a [dynamodb.TransactWriteItemsInput].
// Each member builder is finalised as it is added, so every item carries
// its own placeholder maps and a translation error in any member surfaces
// from Build. A client request token is minted per builder; retries of the
// same built input stay idempotent.
type TransactWrite struct {
	items []types.TransactWriteItem
	token string
	err   error
}

// NewTransactWrite returns an empty transactional write.
func NewTransactWrite() *TransactWrite {
	return &TransactWrite{token: uuid.NewString()}
}

func (t *TransactWrite) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

// Put adds a put to the transaction.
func (t *TransactWrite) Put(p *Put) *TransactWrite {
	if t.err != nil {
		return t
	}
	input, err := p.Build()
	if err != nil {
		t.fail(err)
		return t
	}
	t.items = append(t.items, types.TransactWriteItem{Put: &types.Put{
		TableName:                 input.TableName,
		Item:                      input.Item,
		ConditionExpression:       input.ConditionExpression,
		ExpressionAttributeNames:  input.ExpressionAttributeNames,
		ExpressionAttributeValues: input.ExpressionAttributeValues,
	}})
	return t
}

// Delete adds a delete to the transaction.
func (t *TransactWrite) Delete(d *Delete) *TransactWrite {
	if t.err != nil {
		return t
	}
	input, err := d.Build()
	if err != nil {
		t.fail(err)
		return t
	}
	t.items = append(t.items, types.TransactWriteItem{Delete: &types.Delete{
		TableName:                 input.TableName,
		Key:                       input.Key,
		ConditionExpression:       input.ConditionExpression,
		ExpressionAttributeNames:  input.ExpressionAttributeNames,
		ExpressionAttributeValues: input.ExpressionAttributeValues,
	}})
	return t
}

// Update adds an update to the transaction.
func (t *TransactWrite) Update(u *Update) *TransactWrite {
	if t.err != nil {
		return t
	}
	input, err := u.Build()
	if err != nil {
		t.fail(err)
		return t
	}
	t.items = append(t.items, types.TransactWriteItem{Update: &types.Update{
		TableName:                 input.TableName,
		Key:                       input.Key,
		UpdateExpression:          input.UpdateExpression,
		ConditionExpression:       input.ConditionExpression,
		ExpressionAttributeNames:  input.ExpressionAttributeNames,
		ExpressionAttributeValues: input.ExpressionAttributeValues,
	}})
	return t
}

// Check adds a condition check to the transaction.
func (t *TransactWrite) Check(c *ConditionCheck) *TransactWrite {
	if t.err != nil {
		return t
	}
	check, err := c.Build()
	if err != nil {
		t.fail(err)
		return t
	}
	t.items = append(t.items, types.TransactWriteItem{ConditionCheck: check})
	return t
}

// Len reports the number of items added so far.
func (t *TransactWrite) Len() int {
	return len(t.items)
}

// Build assembles the input.
func (t *TransactWrite) Build() (*dynamodb.TransactWriteItemsInput, error) {
	if t.err != nil {
		return nil, t.err
	}
	if len(t.items) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(t.items) > maxTransactItems {
		return nil, ErrTooManyItems
	}
	return &dynamodb.TransactWriteItemsInput{
		TransactItems:      t.items,
		ClientRequestToken: aws.String(t.token),
	}, nil
}
