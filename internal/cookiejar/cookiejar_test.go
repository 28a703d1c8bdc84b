package cookiejar_test

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bvget/internal/cookiejar"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	return u
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	origin := mustParse(t, "https://passport.bilibili.com/x/passport-login/web/qrcode/poll")

	jar, err := cookiejar.New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	jar.SetCookies(origin, []*http.Cookie{
		{Name: "SESSDATA", Value: "secret", Path: "/", Expires: time.Now().Add(24 * time.Hour)},
		{Name: "bili_jct", Value: "csrf", Path: "/"},
	})

	if err := jar.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := cookiejar.New(path)
	if err != nil {
		t.Fatalf("New() after save failed: %v", err)
	}

	found := map[string]string{}
	for _, c := range reloaded.Cookies(origin) {
		found[c.Name] = c.Value
	}

	if found["SESSDATA"] != "secret" {
		t.Errorf("expected SESSDATA to survive reload, got %v", found)
	}

	if found["bili_jct"] != "csrf" {
		t.Errorf("expected bili_jct to survive reload, got %v", found)
	}
}

func TestExpiredCookieDroppedOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	origin := mustParse(t, "https://passport.bilibili.com/")

	expired := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339Nano)
	content := fmt.Sprintf(`[{"origin":"https://passport.bilibili.com","cookies":[
		{"name":"SESSDATA","value":"stale","path":"/","expires":%q}]}]`, expired)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	jar, err := cookiejar.New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := jar.Cookies(origin); len(got) != 0 {
		t.Errorf("expected expired cookies to be dropped, got %v", got)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	origin := mustParse(t, "https://api.bilibili.com/")

	jar, err := cookiejar.New(path)
	if err != nil {
		t.Fatal(err)
	}

	jar.SetCookies(origin, []*http.Cookie{{Name: "SESSDATA", Value: "v", Path: "/"}})

	if err := jar.Save(); err != nil {
		t.Fatal(err)
	}

	if err := jar.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	if got := jar.Cookies(origin); len(got) != 0 {
		t.Errorf("expected empty jar after clear, got %v", got)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected cookie file to be removed, err=%v", err)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	if _, err := cookiejar.New(path); err != nil {
		t.Errorf("New() with missing file failed: %v", err)
	}
}
