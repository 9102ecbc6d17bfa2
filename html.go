/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/spydle/internal/wordpack"
	"github.com/julienschmidt/httprouter"
)

// cspHome relaxes the default policy for the inline styles on the home page.
func cspHome(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'")
}

func homePage(cfg *Config, packs *wordpack.Registry) string {
	var page strings.Builder

	page.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	page.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	page.WriteString(getFavicon(cfg))
	page.WriteString(`<style>`)
	page.WriteString(`body{font-family:sans-serif;max-width:32rem;margin:2rem auto;padding:0 1rem;}`)
	page.WriteString(`label{display:block;margin-top:1rem;}textarea{width:100%;min-height:6rem;}`)
	page.WriteString(`</style>`)
	page.WriteString(`<title>Spydle</title></head><body>`)
	page.WriteString(`<h1>Spydle</h1>`)
	page.WriteString(fmt.Sprintf(`<form method="post" action="%s/spydle">`, cfg.prefix))

	page.WriteString(`<label>Word pack <select name="pack">`)
	for _, p := range packs.List() {
		selected := ""
		if p.ID == cfg.wordPack {
			selected = " selected"
		}
		page.WriteString(fmt.Sprintf(`<option value="%s"%s>%s %s</option>`,
			html.EscapeString(p.ID), selected, html.EscapeString(p.Icon), html.EscapeString(p.Name)))
	}
	page.WriteString(fmt.Sprintf(`<option value="%s">Custom</option></select></label>`, wordpack.CustomID))

	page.WriteString(`<label>Custom words, separated by commas or new lines <textarea name="words"></textarea></label>`)
	page.WriteString(fmt.Sprintf(`<label>Turn timer in seconds, 0 to disable <input type="number" name="timer" min="0" value="%d"></label>`,
		int(cfg.turnTimer/time.Second)))
	page.WriteString(`<p><button type="submit">Create room</button></p>`)
	page.WriteString(`</form></body></html>`)

	return page.String()
}

func serveHomePage(cfg *Config, packs *wordpack.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		body := homePage(cfg, packs)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		securityHeaders(cfg, w)
		cspHome(cfg, w)

		written, err := w.Write([]byte(body))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Home page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// PackInfo describes a bundled word pack without its words.
type PackInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Words int    `json:"words"`
}

func servePacks(cfg *Config, packs *wordpack.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		list := packs.List()
		infos := make([]PackInfo, len(list))
		for i, p := range list {
			infos[i] = PackInfo{ID: p.ID, Name: p.Name, Icon: p.Icon, Words: len(p.Words)}
		}

		written, err := writeJSON(cfg, w, http.StatusOK, infos)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Pack list (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
