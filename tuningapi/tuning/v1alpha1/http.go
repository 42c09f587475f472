/*
Copyright 2021 TuneLab, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tunelab/tunectl/tuningapi"
)

// NewAPI returns a new API implementation for the supplied client
func NewAPI(client tuningapi.Client) API {
	return &httpAPI{client: client}
}

type httpAPI struct {
	client tuningapi.Client
}

func (h *httpAPI) Options(ctx context.Context) (ServerMeta, error) {
	sm := ServerMeta{}
	u := h.client.URL(endpointTuning).String()

	req, err := http.NewRequest(http.MethodOptions, u, nil)
	if err != nil {
		return sm, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return sm, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		sm.Unmarshal(resp.Header)
		return sm, nil
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		// Some deployments do not answer OPTIONS, the headers are still useful
		sm.Unmarshal(resp.Header)
		return sm, nil
	default:
		return sm, unexpected(resp, body)
	}
}

func (h *httpAPI) GetTuningJobByName(ctx context.Context, n JobName) (TuningJob, error) {
	u := h.client.URL(endpointTuning + url.PathEscape(n.Name()))
	return h.GetTuningJob(ctx, u.String())
}

func (h *httpAPI) GetTuningJob(ctx context.Context, u string) (TuningJob, error) {
	j := TuningJob{}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return j, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return j, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		metaUnmarshal(resp.Header, &j.TuningJobMeta)
		err = json.Unmarshal(body, &j)
		return j, err
	case http.StatusNotFound:
		return j, &Error{Type: ErrTuningJobNotFound}
	default:
		return j, unexpected(resp, body)
	}
}

// GetAllTrials returns the complete trial list for a tuning job, transparently following
// pagination links so callers always observe a single consistent snapshot.
func (h *httpAPI) GetAllTrials(ctx context.Context, u string, q *TrialListQuery) (TrialList, error) {
	rawQuery := q.Encode()
	if rawQuery != "" {
		if uu, err := url.Parse(u); err == nil {
			uu.RawQuery = rawQuery
			u = uu.String()
		}
	}

	lst, err := h.GetTrialsPage(ctx, u)
	if err != nil {
		return lst, err
	}

	next := lst.Next
	for next != "" {
		page, err := h.GetTrialsPage(ctx, next)
		if err != nil {
			return lst, err
		}
		lst.Trials = append(lst.Trials, page.Trials...)
		next = page.Next
	}
	lst.Next = ""

	return lst, nil
}

func (h *httpAPI) GetTrialsPage(ctx context.Context, u string) (TrialList, error) {
	lst := TrialList{}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return lst, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return lst, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		metaUnmarshal(resp.Header, &lst.TrialListMeta)
		err = json.Unmarshal(body, &lst)
		return lst, err
	case http.StatusNotFound:
		return lst, &Error{Type: ErrTuningJobNotFound}
	case http.StatusServiceUnavailable:
		ra, err := strconv.Atoi(resp.Header.Get("Retry-After"))
		if err != nil || ra < 1 {
			ra = 5
		} else if ra > 120 {
			ra = 120
		}
		return lst, &Error{Type: ErrTrialsUnavailable, RetryAfter: time.Duration(ra) * time.Second}
	default:
		return lst, unexpected(resp, body)
	}
}

func unexpected(resp *http.Response, body []byte) error {
	err := &Error{Type: ErrUnexpected}

	if resp.Header.Get("Content-Type") == "application/json" {
		// Unmarshal body into the error to get the error message
		_ = json.Unmarshal(body, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		err.Type = ErrUnauthorized
		if err.Message == "" {
			err.Message = "unauthorized"
		}
	case http.StatusNotFound:
		if resp.Request != nil && resp.Request.URL != nil {
			err.Message = fmt.Sprintf("not found: %s", resp.Request.URL.String())
		}
	}

	if err.Message == "" {
		err.Message = fmt.Sprintf("unexpected server response: %s", resp.Status)
	}

	return err
}

// Extract metadata from the response headers, failures are silently ignored, always call before extracting entity body
func metaUnmarshal(header http.Header, meta Meta) {
	if location := header.Get("Location"); location != "" {
		meta.SetLocation(location)
	}

	if text := header.Get("Last-Modified"); text != "" {
		if lastModified, err := http.ParseTime(text); err == nil {
			meta.SetLastModified(lastModified)
		}
	}

	for _, rh := range header[http.CanonicalHeaderKey("Link")] {
		for _, h := range strings.Split(rh, ",") {
			var link, rel string
			for _, l := range strings.Split(h, ";") {
				l = strings.Trim(l, " ")
				if l == "" {
					continue
				}

				if l[0] == '<' && l[len(l)-1] == '>' {
					link = strings.Trim(l, "<>")
					continue
				}

				p := strings.SplitN(l, "=", 2)
				if len(p) == 2 && strings.ToLower(p[0]) == "rel" {
					rel = strings.Trim(p[1], "\"")
					continue
				}
			}
			meta.SetLink(rel, link)
		}
	}
}
