package api

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// attrJar remembers the Path and expiry of every cookie it stores.
// net/http/cookiejar hands back only name and value, which is not enough
// to persist a login that should lapse when the server says so.
type attrJar struct {
	http.CookieJar

	mu    sync.Mutex
	attrs map[string]cookieAttrs
}

type cookieAttrs struct {
	path    string
	expires time.Time
}

func newAttrJar(jar http.CookieJar) *attrJar {
	return &attrJar{CookieJar: jar, attrs: make(map[string]cookieAttrs)}
}

func (j *attrJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	now := time.Now()
	j.mu.Lock()
	for _, ck := range cookies {
		switch {
		case ck.MaxAge < 0:
			delete(j.attrs, ck.Name)
		case ck.MaxAge > 0:
			j.attrs[ck.Name] = cookieAttrs{path: ck.Path, expires: now.Add(time.Duration(ck.MaxAge) * time.Second)}
		default:
			j.attrs[ck.Name] = cookieAttrs{path: ck.Path, expires: ck.Expires}
		}
	}
	j.mu.Unlock()
	j.CookieJar.SetCookies(u, cookies)
}

// withAttrs returns copies of cookies with the recorded Path and Expires.
func (j *attrJar) withAttrs(cookies []*http.Cookie) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		cp := *ck
		if a, ok := j.attrs[ck.Name]; ok {
			cp.Path = a.path
			cp.Expires = a.expires
		}
		out = append(out, &cp)
	}
	return out
}
