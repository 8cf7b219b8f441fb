package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/modelserve/mserve/cmd/mserve/errors"
	apierr "github.com/modelserve/mserve/pkg/api/types/errors"
)

type MessageFor map[StatusCodeRange]string

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//   - messageFor: title of error message for HTTP status code range.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is not 2xx. For 404, the error wraps apierr.ErrNotFound.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	if err := checkResponse(resp, messageFor); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		message := fmt.Sprintf("unexpected response: %s (status code = %d)", err.Error(), resp.StatusCode)
		return cerr.New(message, cerr.WithCause(err))
	}
	return nil
}

// discardResponse checks status code of the response and drops its body.
func discardResponse(resp *http.Response, messageFor MessageFor) error {
	if err := checkResponse(resp, messageFor); err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func checkResponse(resp *http.Response, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr == Status2xx {
		return nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = fmt.Sprintf("%s (status code = %d)", scr, resp.StatusCode)
	}

	var cause error
	if resp.StatusCode == http.StatusNotFound {
		cause = apierr.ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if cause == nil {
			cause = err
		}
		return cerr.New(
			fmt.Sprintf("%s\ncannot read server message: %s", message, err),
			cerr.WithCause(cause),
		)
	}

	detail, serverMessage := parseErrorMessage(body)
	if cause == nil && serverMessage != nil {
		cause = serverMessage
	}
	return cerr.New(
		message,
		cerr.WithCause(cause),
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + detail, nil
		}),
	)
}

// parseErrorMessage formats the body of an error response.
//
// If the body is an error message of the API, it is also returned.
func parseErrorMessage(body []byte) (string, *apierr.ErrorMessage) {
	if em, err := jsonUnmarshal[apierr.ErrorMessage](body); err == nil {
		return em.String(), em
	}
	if er, err := jsonUnmarshal[apierr.ErrorResponse](body); err == nil {
		return er.Message.String(), &er.Message
	}
	return string(body), nil
}

func jsonUnmarshal[T any](buf []byte) (*T, error) {
	ret := new(T)
	if err := json.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
