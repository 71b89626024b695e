package aiprovider

import (
	"context"
	"fmt"
)

// Static answers without any network call. It backs the offline demo when
// no provider is configured.
type Static struct{}

func NewStatic() Static { return Static{} }

func (Static) Complete(_ context.Context, req Request) (Response, error) {
	return Response{
		Text:  fmt.Sprintf("[offline draft]\n%s", req.Prompt),
		Model: "static",
	}, nil
}
