// Package cookies loads Netscape-format cookie files into a cookie jar so
// authenticated transcript requests can reuse an existing browser session.
package cookies

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// PathInvalidError reports a cookie file that could not be opened.
type PathInvalidError struct {
	Path string
	Err  error
}

func (e *PathInvalidError) Error() string {
	return fmt.Sprintf("can't load the provided cookie file %s: %v", e.Path, e.Err)
}

func (e *PathInvalidError) Unwrap() error { return e.Err }

// InvalidError reports a cookie file that yielded no usable cookies,
// typically because every cookie in it has expired.
type InvalidError struct {
	Path string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("the cookies in %s are not valid (may have expired)", e.Path)
}

const httpOnlyPrefix = "#HttpOnly_"

// LoadNetscapeFile reads a Netscape-format cookie file (the format written
// by browser exporters and curl: tab-separated domain, subdomain flag, path,
// secure flag, expiry epoch seconds, name, value) and returns a jar
// pre-populated with the cookies that have not expired yet.
func LoadNetscapeFile(path string) (http.CookieJar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PathInvalidError{Path: path, Err: err}
	}
	defer f.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loaded := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		// Cookies marked HttpOnly are commented out but still valid.
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cookie, ok := parseLine(line)
		if !ok {
			continue
		}
		if !cookie.Expires.IsZero() && cookie.Expires.Before(now) {
			continue
		}
		jar.SetCookies(cookieURL(cookie), []*http.Cookie{cookie})
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, &PathInvalidError{Path: path, Err: err}
	}
	if loaded == 0 {
		return nil, &InvalidError{Path: path}
	}
	return jar, nil
}

func parseLine(line string) (*http.Cookie, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 7 {
		return nil, false
	}
	expiry, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		expiry = 0
	}
	cookie := &http.Cookie{
		Domain: strings.TrimPrefix(fields[0], "."),
		Path:   fields[2],
		Secure: strings.EqualFold(fields[3], "TRUE"),
		Name:   fields[5],
		Value:  fields[6],
	}
	if expiry > 0 {
		cookie.Expires = time.Unix(expiry, 0)
	}
	return cookie, true
}

func cookieURL(c *http.Cookie) *url.URL {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: c.Domain, Path: c.Path}
}
