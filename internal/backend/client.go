// Package backend is the typed REST client for the remote logistics service.
//
// The remote service owns all domain data (companies, ports, containers,
// leasing records); this client only reads reference collections and issues
// create/patch calls on behalf of the import pipeline. All requests and
// responses are JSON.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RequestError is returned when the remote service responds with a non-2xx
// status. Message carries the server-provided message when the body contains
// one, so row-level import errors can surface the backend's own wording.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// Client talks to the remote logistics REST service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. A zero timeout leaves the
// transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Countries fetches the country reference collection.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := c.get(ctx, "/country", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ports fetches the ports collection.
func (c *Client) Ports(ctx context.Context) ([]Port, error) {
	var out []Port
	if err := c.get(ctx, "/ports", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddressBook fetches the full address book collection. Filtering by
// business type is done client-side by the callers that need it.
func (c *Client) AddressBook(ctx context.Context) ([]AddressBookEntry, error) {
	var out []AddressBookEntry
	if err := c.get(ctx, "/addressbook", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products fetches the products collection.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAddressBook creates a company in the address book.
func (c *Client) CreateAddressBook(ctx context.Context, payload CompanyCreate) (Created, error) {
	var out Created
	err := c.send(ctx, http.MethodPost, "/addressbook", payload, &out)
	return out, err
}

// CreatePort creates a port.
func (c *Client) CreatePort(ctx context.Context, payload PortCreate) (Created, error) {
	var out Created
	err := c.send(ctx, http.MethodPost, "/ports", payload, &out)
	return out, err
}

// CreateInventory creates a container inventory record, including any
// embedded leasing, certificate and report children.
func (c *Client) CreateInventory(ctx context.Context, payload InventoryCreate) (Created, error) {
	var out Created
	err := c.send(ctx, http.MethodPost, "/inventory", payload, &out)
	return out, err
}

// CreateLeasingInfo creates a standalone leasing record. The payload must
// carry InventoryID.
func (c *Client) CreateLeasingInfo(ctx context.Context, payload LeasingInfo) (Created, error) {
	var out Created
	err := c.send(ctx, http.MethodPost, "/leasinginfo", payload, &out)
	return out, err
}

// PatchLeasingInfo updates an existing leasing record.
func (c *Client) PatchLeasingInfo(ctx context.Context, id int, payload LeasingInfo) error {
	return c.send(ctx, http.MethodPatch, fmt.Sprintf("/leasinginfo/%d", id), payload, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// serverMessage extracts the "message" field the remote service puts in its
// error bodies. Reads are capped so a misbehaving server cannot balloon an
// error message.
func serverMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
