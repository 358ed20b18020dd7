package Monday

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		APIURL:     srv.URL,
		FileAPIURL: srv.URL + "/file",
		Token:      "test-token",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestQuerySendsTokenAndReturnsData(t *testing.T) {
	var gotAuth string
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body.Query
		w.Write([]byte(`{"data":{"boards":[]}}`))
	}))
	defer srv.Close()

	data, err := testClient(srv).Query("query { boards { id } }")
	require.NoError(t, err)
	assert.Equal(t, "test-token", gotAuth)
	assert.Equal(t, "query { boards { id } }", gotQuery)
	assert.JSONEq(t, `{"boards":[]}`, string(data))
}

func TestQueryPlatformErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"column not found"}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).Query("query {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column not found")
}

func TestQueryNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv).Query("query {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestQueryNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).Query("query {}")
	require.Error(t, err)
}

func TestUploadToColumnMultipartLayout(t *testing.T) {
	var gotQuery string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotQuery = r.FormValue("query")
		file, _, err := r.FormFile("variables[file]")
		require.NoError(t, err)
		defer file.Close()
		gotFile, _ = io.ReadAll(file)
		w.Write([]byte(`{"data":{"add_file_to_column":{"id":"1"}}}`))
	}))
	defer srv.Close()

	err := testClient(srv).UploadToColumn(42, "file_col", "sig.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "add_file_to_column")
	assert.Contains(t, gotQuery, "item_id: 42")
	assert.Contains(t, gotQuery, `"file_col"`)
	assert.Equal(t, []byte("png-bytes"), gotFile)
}

func TestAddFileToUpdateOperationsLayout(t *testing.T) {
	var gotOperations, gotMap string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotOperations = r.FormValue("operations")
		gotMap = r.FormValue("map")
		_, _, err := r.FormFile("0")
		require.NoError(t, err)
		w.Write([]byte(`{"data":{"add_file_to_update":{"id":"1"}}}`))
	}))
	defer srv.Close()

	err := testClient(srv).AddFileToUpdate(7, "photo.jpg", []byte("jpg"))
	require.NoError(t, err)
	assert.Contains(t, gotOperations, "add_file_to_update")
	assert.Contains(t, gotOperations, "update_id: 7")
	assert.JSONEq(t, `{"0": ["variables.file"]}`, gotMap)
}

func TestUploadErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"file too large"}]}`))
	}))
	defer srv.Close()

	err := testClient(srv).UploadToColumn(1, "col", "f.png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"plain"`, QuoteString("plain"))
	assert.Equal(t, `"say \"hi\""`, QuoteString(`say "hi"`))
	assert.Equal(t, `"back\\slash"`, QuoteString(`back\slash`))
	assert.Equal(t, `"two\nlines"`, QuoteString("two\nlines"))

	// Quoted text must never terminate the literal early.
	assert.Equal(t, `"\") { id } mutation {"`, QuoteString(`") { id } mutation {`))
}

func TestQuoteJSON(t *testing.T) {
	arg, err := QuoteJSON(map[string]string{"status": "Done"})
	require.NoError(t, err)
	assert.Equal(t, `"{\"status\":\"Done\"}"`, arg)
}
