package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nodeforge/clashsub/internal/convert"
	"github.com/nodeforge/clashsub/internal/fetch"
)

type convertRequest struct {
	URL      string
	Content  string // inline document, alternative to URL
	Policy   convert.Policy
	Compact  bool
	FileName string
}

type convertRequestJSON struct {
	URL      string `json:"url"`
	Content  string `json:"content"`
	Policy   string `json:"policy"`
	Compact  string `json:"compact"`
	FileName string `json:"fileName"`
}

type convertHandler struct {
	opt Options
}

func (h convertHandler) handleSub(w http.ResponseWriter, r *http.Request) {
	req, err := parseSubGET(r)
	if err != nil {
		writeErrorFromErr(w, err)
		return
	}
	h.run(w, r, req)
}

func (h convertHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := parseConvertPOST(r)
	if err != nil {
		writeErrorFromErr(w, err)
		return
	}
	h.run(w, r, req)
}

func (h convertHandler) run(w http.ResponseWriter, r *http.Request, req convertRequest) {
	// Hard upper bound so handlers don't hang forever on a bad upstream.
	ctx, cancel := context.WithTimeout(r.Context(), h.opt.ConvertTimeout)
	defer cancel()

	text := req.Content
	var info http.Header
	if req.URL != "" {
		res, err := fetch.FetchWithOptions(ctx, req.URL, fetch.Options{Timeout: h.opt.FetchTimeout})
		if err != nil {
			writeErrorFromErr(w, err)
			return
		}
		text = res.Text
		info = res.Info
	}

	start := time.Now()
	out, err := convert.Convert(text, convert.Options{
		Policy:    req.Policy,
		NoCompact: !req.Compact,
	})
	if err != nil {
		writeErrorFromErr(w, err)
		return
	}
	metricsObserveConvert(string(req.Policy), time.Since(start).Seconds())

	// Account-usage metadata from upstream passes through unchanged.
	for k, vs := range info {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if err := setAttachmentHeaders(w, req); err != nil {
		writeErrorFromErr(w, err)
		return
	}
	WriteYAML(w, http.StatusOK, out)
}

func parseSubGET(r *http.Request) (convertRequest, error) {
	q := r.URL.Query()
	for key := range q {
		switch key {
		case "url", "policy", "compact", "filename":
		default:
			return convertRequest{}, requestError("INVALID_ARGUMENT", fmt.Sprintf("不支持的 query 参数：%s", key), "")
		}
	}

	rawURL, err := singleQuery(q, "url", true)
	if err != nil {
		return convertRequest{}, err
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "url 不能为空", "expected: url=<subscription url>")
	}

	policyStr, err := singleQuery(q, "policy", false)
	if err != nil {
		return convertRequest{}, err
	}
	policy, err := parsePolicy(policyStr)
	if err != nil {
		return convertRequest{}, err
	}

	compactStr, err := singleQuery(q, "compact", false)
	if err != nil {
		return convertRequest{}, err
	}
	compact, err := parseCompact(compactStr)
	if err != nil {
		return convertRequest{}, err
	}

	fileName, err := singleQuery(q, "filename", false)
	if err != nil {
		return convertRequest{}, err
	}

	return convertRequest{
		URL:      rawURL,
		Policy:   policy,
		Compact:  compact,
		FileName: fileName,
	}, nil
}

func parseConvertPOST(r *http.Request) (convertRequest, error) {
	var body convertRequestJSON
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 解析失败", err.Error())
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 不允许多段", "")
	} else if !errors.Is(err, io.EOF) {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "JSON body 解析失败", err.Error())
	}

	rawURL := strings.TrimSpace(body.URL)
	content := body.Content
	if (rawURL == "") == (content == "") {
		return convertRequest{}, requestError("INVALID_ARGUMENT", "url/content 必须二选一", "")
	}

	policy, err := parsePolicy(body.Policy)
	if err != nil {
		return convertRequest{}, err
	}
	compact, err := parseCompact(body.Compact)
	if err != nil {
		return convertRequest{}, err
	}

	return convertRequest{
		URL:      rawURL,
		Content:  content,
		Policy:   policy,
		Compact:  compact,
		FileName: strings.TrimSpace(body.FileName),
	}, nil
}

func parsePolicy(s string) (convert.Policy, error) {
	switch strings.TrimSpace(s) {
	case "":
		return convert.PolicyHeuristic, nil
	case string(convert.PolicyHeuristic):
		return convert.PolicyHeuristic, nil
	case string(convert.PolicyFixed):
		return convert.PolicyFixed, nil
	default:
		return "", requestError("INVALID_ARGUMENT", "不支持的 policy（仅支持 fixed/heuristic）", s)
	}
}

func parseCompact(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "", "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, requestError("INVALID_ARGUMENT", "不支持的 compact（仅支持 on/off）", s)
	}
}

func singleQuery(q url.Values, key string, required bool) (string, error) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		if required {
			return "", requestError("INVALID_ARGUMENT", fmt.Sprintf("缺少 %s 参数", key), "")
		}
		return "", nil
	}
	if len(values) != 1 {
		return "", requestError("INVALID_ARGUMENT", fmt.Sprintf("%s 参数只能出现一次", key), "")
	}
	return values[0], nil
}
