package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"SocialInsights/src/charts"
	"SocialInsights/src/processor"
)

// session 取出当前会话的控件状态，没有则新建
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, processor.ViewState) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if state, ok := s.sessions.Get(c.Value); ok {
			return c.Value, state
		}
	}
	id := s.sessions.NewID()
	state := processor.DefaultViewState(s.dc)
	s.sessions.Put(id, state)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, state
}

// applyQuery 用请求参数覆盖控件状态
func applyQuery(r *http.Request, state processor.ViewState) processor.ViewState {
	q := r.URL.Query()
	if v := q.Get("towns"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			state.RowCount = n
		}
	}
	// annotate_set 区分"未提交"和"全部取消"
	if q.Has("annotate_set") || q.Has("annotate") {
		state.Annotate = append([]string{}, q["annotate"]...)
	}
	return state
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, state := s.session(w, r)
	state = applyQuery(r, state)

	res, err := processor.Run(r.Context(), s.loader, s.dc, state)
	if errors.Is(err, processor.ErrUnknownTown) {
		// 数据配置热加载后示例表可能已变化，丢弃过期的提交
		state.Submitted = false
		res, err = processor.Run(r.Context(), s.loader, s.dc, state)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// 饼图只在提交后的这一次渲染中出现
	next := res.State
	next.Submitted = false
	s.sessions.Put(id, next)

	summary, err := processor.Describe(res.Raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	gender, err := dataURI(func(w io.Writer) error { return charts.RenderGender(w, res.Visible) })
	if err != nil {
		s.fail(w, r, err)
		return
	}
	family, err := dataURI(func(w io.Writer) error { return charts.RenderFamily(w, res.Towns, res.Annotated) })
	if err != nil {
		s.fail(w, r, err)
		return
	}

	slider := s.dc.GetSlider()
	data := pageData{
		Intro:      introText,
		Source:     sourceText,
		Glossary:   glossary,
		Header:     summary.Header,
		Rows:       summary.Rows,
		SliderMin:  slider.Min,
		SliderMax:  slider.Max,
		SliderStep: slider.Step,
		RowCount:   res.State.RowCount,
		GenderPNG:  gender,
		FamilyPNG:  family,
		SampleTown: res.State.SampleTown,
		Submitted:  res.Sample != nil,
	}

	selected := make(map[string]bool, len(res.State.Annotate))
	for _, name := range res.State.Annotate {
		selected[name] = true
	}
	seen := make(map[string]bool, len(res.Towns))
	for _, t := range res.Towns {
		if seen[t.Town] {
			continue
		}
		seen[t.Town] = true
		data.Towns = append(data.Towns, townOption{Name: t.Town, Selected: selected[t.Town]})
	}
	for _, st := range s.dc.GetSample() {
		data.Sample = append(data.Sample, st.Town)
	}

	if res.Sample != nil {
		data.PieTown = res.Sample.Town
		data.PiePNG, err = dataURI(func(w io.Writer) error { return charts.RenderPie(w, *res.Sample) })
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := renderPage(&buf, data); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleSample 表单提交后才显示饼图
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	town := r.PostForm.Get("town")

	cols := s.dc.GetColumns()
	if _, err := processor.SelectSample(processor.SampleTable(s.dc.GetSample(), cols), cols, town); err != nil {
		s.fail(w, r, err)
		return
	}

	id, state := s.session(w, r)
	state.SampleTown = town
	state.Submitted = true
	s.sessions.Put(id, state)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGenderPNG(w http.ResponseWriter, r *http.Request) {
	state := applyQuery(r, processor.DefaultViewState(s.dc))
	res, err := processor.Run(r.Context(), s.loader, s.dc, state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, func(w io.Writer) error { return charts.RenderGender(w, res.Visible) })
}

func (s *Server) handleFamilyPNG(w http.ResponseWriter, r *http.Request) {
	state := applyQuery(r, processor.DefaultViewState(s.dc))
	res, err := processor.Run(r.Context(), s.loader, s.dc, state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, func(w io.Writer) error { return charts.RenderFamily(w, res.Towns, res.Annotated) })
}

// handlePiePNG 饼图只依赖示例表，不需要加载数据源
func (s *Server) handlePiePNG(w http.ResponseWriter, r *http.Request) {
	town := r.URL.Query().Get("town")
	cols := s.dc.GetColumns()
	sample, err := processor.SelectSample(processor.SampleTable(s.dc.GetSample(), cols), cols, town)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, func(w io.Writer) error { return charts.RenderPie(w, sample) })
}

func (s *Server) handleTowns(w http.ResponseWriter, r *http.Request) {
	state := applyQuery(r, processor.DefaultViewState(s.dc))
	res, err := processor.Run(r.Context(), s.loader, s.dc, state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"row_count": res.State.RowCount,
		"total":     len(res.Towns),
		"towns":     res.Visible,
	})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	res, err := processor.Run(r.Context(), s.loader, s.dc, processor.DefaultViewState(s.dc))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := processor.Describe(res.Raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dups, err := processor.DuplicateTowns(res.Table, s.dc.GetColumns())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":       res.Table.Nrow(),
		"summary":    summary,
		"duplicates": dups,
	})
}

// handleLogs 持续推送日志
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	logChan := s.logger.Subscribe()
	defer s.logger.Unsubscribe(logChan)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case msg, ok := <-logChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprint(w, msg); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// fail 示例城镇错误返回400，其余错误记录后返回500，不做部分渲染
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "Failed to load the dataset. Please try again later."
	if errors.Is(err, processor.ErrUnknownTown) {
		status = http.StatusBadRequest
		msg = "Unknown town selected."
		s.logger.Warning(fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	} else {
		s.logger.Error(fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	errorTemplate.Execute(w, msg)
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	b, err := charts.PNG(render)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(b)
}

func dataURI(render func(io.Writer) error) (template.URL, error) {
	b, err := charts.PNG(render)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b)), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
