package httphelpers

import (
	"net/http"
	"net/url"
	"strings"
)

func PackageHelpers() {
	http.Get("https://qr-api.example")                                       // want "http.Get is forbidden, use an injected \\*http.Client"
	http.Head("https://qr-api.example")                                      // want "http.Head is forbidden, use an injected \\*http.Client"
	http.Post("https://qr-api.example", "application/json", nil)             // want "http.Post is forbidden, use an injected \\*http.Client"
	http.PostForm("https://qr-api.example", url.Values{})                    // want "http.PostForm is forbidden, use an injected \\*http.Client"
	http.DefaultClient.Do(nil)                                               // want "http.DefaultClient is forbidden, use an injected \\*http.Client"
}

func InjectedClient(client *http.Client) {
	req, _ := http.NewRequest(http.MethodPost, "https://qr-api.example/generate_qr", strings.NewReader(`{"url":"https://example.com"}`))
	client.Do(req)
	client.Get("https://qr-api.example")
	_ = &http.Client{}
}
