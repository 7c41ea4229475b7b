package app

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func postSnapshot(t *testing.T, port int, body string) int {
	t.Helper()
	resp, err := http.Post(fmt.Sprintf("http://127.0.0.1:%d/model", port), "application/json", strings.NewReader(body))
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	return resp.StatusCode
}
