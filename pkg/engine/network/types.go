// Kumo: A resilient manga aggregation library and CLI.
// Copyright (C) 2026 The Kumo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package network

import "net/http"

// RequestOptions carries per-request extras on top of the client-wide
// configuration. A nil *RequestOptions is valid.
type RequestOptions struct {
	Headers http.Header
	Cookies []*http.Cookie
	Referer string
}

func (o *RequestOptions) apply(req *http.Request) {
	if o == nil {
		return
	}
	for k, v := range o.Headers {
		req.Header[k] = v
	}
	for _, c := range o.Cookies {
		req.AddCookie(c)
	}
	if o.Referer != "" {
		req.Header.Set("Referer", o.Referer)
	}
}
