package errors

import (
	"errors"
	"fmt"
)

// statusCarrier is satisfied by upstream client errors.
type statusCarrier interface {
	StatusCode() int
	Endpoint() string
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus   int    `json:"upstream_status,omitempty"`
	UpstreamEndpoint string `json:"upstream_endpoint,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var sc statusCarrier
	if errors.As(err, &sc) {
		d.UpstreamStatus = sc.StatusCode()
		d.UpstreamEndpoint = sc.Endpoint()
	}

	return d
}
