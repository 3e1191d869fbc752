// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package qr encodes and decodes attendance check-in codes.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrInvalidPayload is returned for anything that is not a complete payload.
var ErrInvalidPayload = errors.New("invalid QR payload")

const imageSize = 256

// Payload is the logical content of a check-in code.
type Payload struct {
	UserID string `json:"userId"`
	TeamID string `json:"teamId"`
}

// Encode returns the string stored inside the QR image.
func Encode(p Payload) (string, error) {
	if p.UserID == "" || p.TeamID == "" {
		return "", ErrInvalidPayload
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(b), nil
}

// Decode parses a scanned string. Input that is not JSON is taken as a bare
// user id, which then fails because the team id is missing.
func Decode(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrInvalidPayload
	}

	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		p = Payload{UserID: raw}
	}

	p.UserID = strings.TrimSpace(p.UserID)
	p.TeamID = strings.TrimSpace(p.TeamID)
	if p.UserID == "" || p.TeamID == "" {
		return Payload{}, ErrInvalidPayload
	}
	return p, nil
}

// Image renders the payload as a PNG data URL.
func Image(p Payload) (payload string, dataURL string, err error) {
	payload, err = Encode(p)
	if err != nil {
		return "", "", err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return "", "", fmt.Errorf("failed to render QR image: %w", err)
	}

	return payload, "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
