package modelclient

import (
	"context"
	"errors"
	"testing"
)

func TestNoopClientAlwaysFails(t *testing.T) {
	var c Client = NoopClient{}
	resp, err := c.Generate(context.Background(), Request{Model: "gpt-4o-mini"})
	if resp != nil {
		t.Fatalf("expected nil response, got %+v", resp)
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
