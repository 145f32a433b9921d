package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeS3 answers the path-style requests the S3 backend issues.
type fakeS3 struct {
	mu   sync.Mutex
	objs map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
	meta        map[string]string
}

func newFakeS3() *fakeS3 { return &fakeS3{objs: make(map[string]fakeObject)} }

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return f.list(req.URL.Query().Get("prefix")), nil
	}
	obj, ok := f.objs[key]
	switch req.Method {
	case http.MethodPut:
		if ok && req.Header.Get("If-None-Match") == "*" {
			return xmlResponse(http.StatusPreconditionFailed, "<Error><Code>PreconditionFailed</Code><Message>exists</Message></Error>"), nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		meta := map[string]string{}
		for h, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(h), "x-amz-meta-") {
				meta[strings.ToLower(strings.TrimPrefix(strings.ToLower(h), "x-amz-meta-"))] = v[0]
			}
		}
		f.objs[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), meta: meta}
		return &http.Response{StatusCode: http.StatusOK, Header: http.Header{"Etag": {`"etag"`}}, Body: io.NopCloser(bytes.NewReader(nil))}, nil
	case http.MethodHead, http.MethodGet:
		if !ok {
			if req.Method == http.MethodHead {
				return &http.Response{StatusCode: http.StatusNotFound, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(nil))}, nil
			}
			return xmlResponse(http.StatusNotFound, "<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>"), nil
		}
		h := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {`"etag"`},
			"Last-Modified":  {time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat)},
		}
		for k, v := range obj.meta {
			h.Set("X-Amz-Meta-"+k, v)
		}
		body := obj.body
		if req.Method == http.MethodHead {
			body = nil
		}
		return &http.Response{StatusCode: http.StatusOK, Header: h, ContentLength: int64(len(obj.body)), Body: io.NopCloser(bytes.NewReader(body))}, nil
	case http.MethodDelete:
		delete(f.objs, key)
		return &http.Response{StatusCode: http.StatusNoContent, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(nil))}, nil
}

func (f *fakeS3) list(prefix string) *http.Response {
	keys := make([]string, 0, len(f.objs))
	for k := range f.objs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, k := range keys {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><ETag>&quot;etag&quot;</ETag><LastModified>2026-01-02T03:04:05Z</LastModified></Contents>", k, len(f.objs[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return xmlResponse(http.StatusOK, b.String())
}

func xmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/xml"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func openDrivers(t *testing.T) map[Driver]Store {
	t.Helper()
	ctx := context.Background()
	out := make(map[Driver]Store)

	fsStore, err := Open(ctx, Options{Driver: DriverFilesystem, FSRoot: t.TempDir()})
	require.NoError(t, err)
	out[DriverFilesystem] = fsStore

	memStore, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	out[DriverMemory] = memStore

	s3Store, err := Open(ctx, Options{Driver: DriverS3, S3: S3Config{
		Bucket:          "reports",
		Endpoint:        "http://s3.test",
		PathStyle:       true,
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: newFakeS3()},
	}})
	require.NoError(t, err)
	out[DriverS3] = s3Store
	return out
}

func TestStoreContract(t *testing.T) {
	for driver, store := range openDrivers(t) {
		t.Run(string(driver), func(t *testing.T) {
			ctx := context.Background()
			require.Equal(t, driver, store.Driver())

			info, err := store.Put(ctx, "runs/r1/prioritization.tsv", strings.NewReader("rank\tgene\n"), PutOptions{
				ContentType: "text/tab-separated-values",
				Metadata:    map[string]string{"run": "r1"},
			})
			require.NoError(t, err)
			require.Equal(t, "runs/r1/prioritization.tsv", info.Key)
			require.EqualValues(t, 10, info.Size)

			_, err = store.Put(ctx, "runs/r1/prioritization.tsv", strings.NewReader("other"), PutOptions{})
			require.ErrorIs(t, err, ErrExists)

			got, rc, err := store.Get(ctx, "runs/r1/prioritization.tsv")
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, "rank\tgene\n", string(body))
			require.Equal(t, "text/tab-separated-values", got.ContentType)
			require.Equal(t, "r1", got.Metadata["run"])

			_, err = store.Put(ctx, "runs/r1/networks.tsv", strings.NewReader("x"), PutOptions{})
			require.NoError(t, err)
			_, err = store.Put(ctx, "runs/r2/networks.tsv", strings.NewReader("y"), PutOptions{})
			require.NoError(t, err)

			listed, err := store.List(ctx, "runs/r1/")
			require.NoError(t, err)
			keys := make([]string, 0, len(listed))
			for _, inf := range listed {
				keys = append(keys, inf.Key)
			}
			require.Equal(t, []string{"runs/r1/networks.tsv", "runs/r1/prioritization.tsv"}, keys)

			_, err = store.Head(ctx, "runs/missing.tsv")
			require.ErrorIs(t, err, ErrNotFound)
			_, _, err = store.Get(ctx, "runs/missing.tsv")
			require.ErrorIs(t, err, ErrNotFound)

			existed, err := store.Delete(ctx, "runs/r2/networks.tsv")
			require.NoError(t, err)
			require.True(t, existed)
			existed, err = store.Delete(ctx, "runs/r2/networks.tsv")
			require.NoError(t, err)
			require.False(t, existed)

			for _, bad := range []string{"", "/abs", "../escape"} {
				_, err := store.Put(ctx, bad, strings.NewReader("z"), PutOptions{})
				require.ErrorIs(t, err, ErrInvalidKey, "key %q", bad)
			}
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "ftp"})
	require.Error(t, err)
}

func TestOpenS3RequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverS3})
	require.Error(t, err)
}

func TestOpenDefaultsToFilesystem(t *testing.T) {
	store, err := Open(context.Background(), Options{FSRoot: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, store.Driver())
}

func TestParseDriver(t *testing.T) {
	for _, d := range Drivers() {
		got, err := ParseDriver(string(d))
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
	_, err := ParseDriver("gcs")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidKey))
}
