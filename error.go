package paketpilot

import "fmt"

type IDNotProvidedError struct{}

func (e IDNotProvidedError) Error() string {
	return "ID was not provided."
}

type IDDuplicatedError struct{}

func (e IDDuplicatedError) Error() string {
	return "Provided ID was duplicated."
}

type BuildingExpressionError struct {
	Cause error
}

func (e BuildingExpressionError) Error() string {
	return fmt.Sprintf("Failed to build expression: %v.", e.Cause)
}

func (e BuildingExpressionError) Unwrap() error {
	return e.Cause
}

type DynamoDBAPIError struct {
	Cause error
}

func (e DynamoDBAPIError) Error() string {
	return fmt.Sprintf("Failed DynamoDB API: %v.", e.Cause)
}

func (e DynamoDBAPIError) Unwrap() error {
	return e.Cause
}

type UnmarshalingAttributeError struct {
	Cause error
}

func (e UnmarshalingAttributeError) Error() string {
	return fmt.Sprintf("Failed to unmarshal: %v.", e.Cause)
}

func (e UnmarshalingAttributeError) Unwrap() error {
	return e.Cause
}

type MarshalingAttributeError struct {
	Cause error
}

func (e MarshalingAttributeError) Error() string {
	return fmt.Sprintf("Failed to marshal: %v.", e.Cause)
}

func (e MarshalingAttributeError) Unwrap() error {
	return e.Cause
}

type UnprocessedItemsError struct {
	Remaining int
	Cause     error
}

func (e UnprocessedItemsError) Error() string {
	return fmt.Sprintf("Failed to process %d batch items: %v.", e.Remaining, e.Cause)
}

func (e UnprocessedItemsError) Unwrap() error {
	return e.Cause
}
