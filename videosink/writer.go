// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strconv"
)

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}

// partWriter writes an endless MIME multipart stream. mime/multipart.Writer
// cannot flush the closing boundary line of each part, which clients need to
// display a frame.
type partWriter struct {
	u        io.Writer
	boundary string
	started  bool
	head     bytes.Buffer
}

func makePartWriter(u io.Writer) *partWriter {
	return &partWriter{u: u, boundary: randomBoundary()}
}

// writeFrame sends a single part and its closing boundary. It sets the
// Content-Length of the caller-owned headers.
func (w *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	w.head.Reset()
	if !w.started {
		fmt.Fprintf(&w.head, "--%s\r\n", w.boundary)
		w.started = true
	}
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range header[name] {
			fmt.Fprintf(&w.head, "%s: %s\r\n", name, value)
		}
	}
	w.head.WriteString("\r\n")

	if _, err := w.head.WriteTo(w.u); err != nil {
		return err
	}
	if _, err := w.u.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.u, "\r\n--%s\r\n", w.boundary)
	return err
}
