package httpapi

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/trazzed/uqimage/pkg/stats"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	homePage := filepath.Join(t.TempDir(), "home.html")
	require.NoError(t, os.WriteFile(homePage, []byte("<html>home</html>"), 0o644))

	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))

	h := New(log, stats.NewCollector())
	h.homePagePath = homePage
	return h
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestServeHomePage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	require.Equal(t, "<html>home</html>", rec.Body.String())

	snap := h.collector.Snapshot()
	require.EqualValues(t, 1, snap.Success)
	require.EqualValues(t, 0, snap.Unsuccess)
}

func TestHomePageMissingAssetCountsUnsuccess(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	h.homePagePath = filepath.Join(t.TempDir(), "missing.html")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	snap := h.collector.Snapshot()
	require.EqualValues(t, 1, snap.Unsuccess)
}

func TestSuccessAndUnsuccessCountEveryResponse(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	home := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), home)

	ok := httptest.NewRequest(http.MethodPost, "/rotate,45", bytes.NewReader(testPNG(t, 4, 4)))
	h.ServeHTTP(httptest.NewRecorder(), ok)

	bad := httptest.NewRequest(http.MethodPost, "/rotate,400", bytes.NewReader(testPNG(t, 4, 4)))
	h.ServeHTTP(httptest.NewRecorder(), bad)

	snap := h.collector.Snapshot()
	require.EqualValues(t, 2, snap.Success)
	require.EqualValues(t, 1, snap.Unsuccess)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "Invalid method on request list\n", rec.Body.String())
	require.EqualValues(t, 1, h.collector.Snapshot().Unsuccess)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/foo", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Invalid address in GET request\n", rec.Body.String())
	require.EqualValues(t, 1, h.collector.Snapshot().Unsuccess)
}

func TestInvalidOperation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/rotate,400", bytes.NewReader(testPNG(t, 4, 4)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid image operation\n", rec.Body.String())
	require.EqualValues(t, 1, h.collector.Snapshot().Unsuccess)
}

func TestPostRotateSucceeds(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/rotate,45", bytes.NewReader(testPNG(t, 10, 10)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	decoded, err := png.Decode(rec.Body)
	require.NoError(t, err)
	require.Positive(t, decoded.Bounds().Dx())
	require.Positive(t, decoded.Bounds().Dy())

	snap := h.collector.Snapshot()
	require.EqualValues(t, 1, snap.Success)
	require.EqualValues(t, 1, snap.Operations)
}

func TestPostInvalidImage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/rotate,0", bytes.NewReader([]byte("not a png")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Invalid image received\n", rec.Body.String())

	snap := h.collector.Snapshot()
	require.EqualValues(t, 1, snap.Unsuccess)
}

func TestPostBodyTooLarge(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	body := bytes.Repeat([]byte{0}, 9*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/rotate,0", bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "Image is too large: 9437184 bytes\n", rec.Body.String())
	require.EqualValues(t, 1, h.collector.Snapshot().Unsuccess)
}
