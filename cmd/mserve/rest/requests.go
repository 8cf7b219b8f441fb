package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func serverError(resp *http.Response) string {
	return fmt.Sprintf("server error (status code = %d)", resp.StatusCode)
}

// getJson sends GET request and unmarshals its response.
//
// notFound is the message for 4xx responses.
func getJson[T any](ctx context.Context, c *client, endpoint string, notFound string) (T, error) {
	var ret T
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ret, err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return ret, err
	}
	defer resp.Body.Close()

	if err := unmarshalJsonResponse(
		resp, &ret,
		MessageFor{Status4xx: notFound, Status5xx: serverError(resp)},
	); err != nil {
		var zero T
		return zero, err
	}
	return ret, nil
}

// postJson sends POST request with json body and unmarshals its response.
//
// rejected is the message for 4xx responses.
func postJson[T any](ctx context.Context, c *client, endpoint string, body any, rejected string) (T, error) {
	var ret T
	buf, err := json.Marshal(body)
	if err != nil {
		return ret, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return ret, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return ret, err
	}
	defer resp.Body.Close()

	if err := unmarshalJsonResponse(
		resp, &ret,
		MessageFor{Status4xx: rejected, Status5xx: serverError(resp)},
	); err != nil {
		var zero T
		return zero, err
	}
	return ret, nil
}

func (c *client) deleteResource(ctx context.Context, endpoint string, notFound string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return discardResponse(resp, MessageFor{Status4xx: notFound, Status5xx: serverError(resp)})
}
