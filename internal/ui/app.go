package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/config"
	"github.com/asrecorded/asrec/internal/review"
	"github.com/asrecorded/asrec/internal/store"
	"github.com/asrecorded/asrec/internal/timecode"
	"github.com/asrecorded/asrec/internal/watcher"
)

// Backend is the part of the API client the review screen uses.
type Backend interface {
	ChapterDetails(ctx context.Context, chapterID int64) (*api.ChapterDetails, error)
	UpdateStatus(ctx context.Context, interventionID int64, completed bool) (bool, error)
	UpdateDialogue(ctx context.Context, interventionID int64, dialogue string) (string, error)
	UpdateTimecode(ctx context.Context, interventionID int64, tcIn *string) (*string, error)
	ExportChapter(ctx context.Context, chapterID int64, w io.Writer) (string, int64, error)
}

// Journal records submitted edits and the last viewed take.
type Journal interface {
	Record(e store.Entry) (int64, error)
	Settle(requestID, errText string) error
	SavePosition(chapterID int64, index int) error
	Position(chapterID int64) (int, bool, error)
}

type Options struct {
	ChapterID int64
	Backend   Backend
	Journal   Journal // optional
	Logger    *slog.Logger
	Config    config.Config
	Watcher   *watcher.Watcher // optional; reloads config on change
	// OnReload is called with the new config after a reload.
	OnReload func(config.Config)
}

type tickMsg time.Time

type chapterLoadedMsg struct {
	details  *api.ChapterDetails
	position int
	resume   bool
}

type chapterFailedMsg struct {
	err error
}

type mutationDoneMsg struct {
	result review.Result
}

type exportDoneMsg struct {
	path  string
	bytes int64
	err   error
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	chapterID int64
	backend   Backend
	journal   Journal
	logger    *slog.Logger
	cfg       config.Config
	watch     *watcher.Watcher
	onReload  func(config.Config)

	session  *review.Session
	search   SearchBox
	picker   TakePicker
	dialogue textarea.Model
	editor   *openEditor

	rowCursor   int
	width       int
	height      int
	ready       bool
	frame       int
	status      string // transient footer text, e.g. export result
	statusErr   bool
	exporting   bool
	confirmQuit bool
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Model{
		chapterID: opts.ChapterID,
		backend:   opts.Backend,
		journal:   opts.Journal,
		logger:    logger,
		cfg:       opts.Config,
		watch:     opts.Watcher,
		onReload:  opts.OnReload,
		session:   review.NewSession(),
		search:    NewSearchBox(),
		picker:    NewTakePicker(),
		dialogue:  newDialogueArea(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd(), tickCmd()}
	if m.watch != nil {
		cmds = append(cmds, m.watch.Next())
	}
	return tea.Batch(cmds...)
}

// Session exposes the review state, mainly for tests.
func (m Model) Session() *review.Session {
	return m.session
}

func (m Model) loadCmd() tea.Cmd {
	backend, journal, logger := m.backend, m.journal, m.logger
	id, resume := m.chapterID, m.cfg.ResumePosition
	return func() tea.Msg {
		d, err := backend.ChapterDetails(context.Background(), id)
		if err != nil {
			logger.Warn("chapter load failed", "chapter", id, "error", err)
			return chapterFailedMsg{err: err}
		}
		msg := chapterLoadedMsg{details: d}
		if journal != nil && resume {
			pos, ok, err := journal.Position(id)
			if err != nil {
				logger.Warn("read saved position", "chapter", id, "error", err)
			}
			msg.position, msg.resume = pos, ok
		}
		logger.Info("chapter loaded", "chapter", id, "takes", len(d.Takes))
		return msg
	}
}

// mutateCmd sends one edit. The journal row and the request share an id.
func (m Model) mutateCmd(mut review.Mutation) tea.Cmd {
	backend, journal, logger, chapterID := m.backend, m.journal, m.logger, m.chapterID
	return func() tea.Msg {
		reqID := uuid.NewString()
		if journal != nil {
			_, err := journal.Record(store.Entry{
				RequestID:      reqID,
				ChapterID:      chapterID,
				InterventionID: mut.InterventionID,
				Field:          mut.Field.String(),
				Value:          journalValue(mut),
			})
			if err != nil {
				logger.Warn("journal record", "request_id", reqID, "error", err)
			}
		}

		ctx := api.WithRequestID(context.Background(), reqID)
		res := review.Result{Mutation: mut}
		switch mut.Field {
		case review.FieldStatus:
			res.Confirmed.Completed, res.Err = backend.UpdateStatus(ctx, mut.InterventionID, mut.Value.Completed)
		case review.FieldDialogue:
			res.Confirmed.Dialogue, res.Err = backend.UpdateDialogue(ctx, mut.InterventionID, mut.Value.Dialogue)
		case review.FieldTimecode:
			res.Confirmed.TCIn, res.Err = backend.UpdateTimecode(ctx, mut.InterventionID, mut.Value.TCIn)
		}

		if res.Err != nil {
			logger.Warn("edit failed", "intervention", mut.InterventionID, "field", mut.Field,
				"request_id", reqID, "error", res.Err)
		}
		if journal != nil {
			if err := journal.Settle(reqID, api.Message(res.Err)); err != nil {
				logger.Warn("journal settle", "request_id", reqID, "error", err)
			}
		}
		return mutationDoneMsg{result: res}
	}
}

func journalValue(mut review.Mutation) string {
	switch mut.Field {
	case review.FieldStatus:
		return strconv.FormatBool(mut.Value.Completed)
	case review.FieldDialogue:
		return mut.Value.Dialogue
	case review.FieldTimecode:
		if mut.Value.TCIn != nil {
			return *mut.Value.TCIn
		}
	}
	return ""
}

func (m Model) exportCmd() tea.Cmd {
	backend, logger, id, dir := m.backend, m.logger, m.chapterID, m.cfg.ExportPath()
	return func() tea.Msg {
		path, n, err := SaveExport(context.Background(), backend, id, dir, "")
		if err != nil {
			logger.Warn("export failed", "chapter", id, "error", err)
			return exportDoneMsg{err: err}
		}
		logger.Info("chapter exported", "chapter", id, "path", path, "bytes", n)
		return exportDoneMsg{path: path, bytes: n}
	}
}

// SaveExport downloads the chapter export into dir. The file is named
// name, or the server's suggested filename when name is empty. A partial
// download never replaces an existing file.
func SaveExport(ctx context.Context, backend Backend, chapterID int64, dir, name string) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}
	tmp, err := os.CreateTemp(dir, ".asrec-export-*")
	if err != nil {
		return "", 0, err
	}
	suggested, n, err := backend.ExportChapter(ctx, chapterID, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", n, err
	}
	if name == "" {
		name = suggested
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", n, err
	}
	return path, n, nil
}

func (m Model) savePosition() {
	if m.journal == nil || !m.session.Loaded() || m.session.LoadError() != "" {
		return
	}
	idx := m.session.Navigator().Index()
	if idx < 0 {
		return
	}
	if err := m.journal.SavePosition(m.chapterID, idx); err != nil {
		m.logger.Warn("save position", "chapter", m.chapterID, "error", err)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		m.frame++
		return m, tickCmd()

	case chapterLoadedMsg:
		m.session.Load(msg.details)
		if msg.resume {
			m.session.SelectTake(msg.position)
		}
		m.search.SetCharacters(m.session.Navigator().Characters())
		m.rowCursor = 0
		return m, nil

	case chapterFailedMsg:
		text := api.Message(msg.err)
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			text = "not logged in; run `asrec login` first"
		}
		m.session.Fail(text)
		return m, nil

	case mutationDoneMsg:
		m.session.Resolve(msg.result)
		m.clampRow()
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.setStatus("export failed: "+api.Message(msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("exported %s (%d bytes)", msg.path, msg.bytes), false)
		}
		return m, nil

	case watcher.ChangedMsg:
		m.cfg = config.Load()
		if t, ok := m.backend.(interface{ SetTimeout(time.Duration) }); ok {
			t.SetTimeout(m.cfg.RequestTimeout())
		}
		if m.onReload != nil {
			m.onReload(m.cfg)
		}
		m.logger.Info("config reloaded", "path", msg.Path, "fps", m.cfg.FPS())
		return m, m.watch.Next()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.savePosition()
			return m, tea.Quit
		}
		if m.confirmQuit {
			return m.handleConfirmQuit(msg)
		}
		if m.editor != nil {
			return m.handleEditorKey(msg)
		}
		if m.picker.IsVisible() {
			return m.handlePickerKey(msg)
		}
		if m.search.IsActive() {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.editor != nil && m.editor.field == review.FieldDialogue {
		var cmd tea.Cmd
		m.dialogue, cmd = m.dialogue.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) layout() {
	m.search.SetWidth(m.width)
	m.picker.SetSize(m.width, m.height)
	m.dialogue.SetWidth(max(m.width-rowIndentWidth()-4, 20))
}

func rowIndentWidth() int {
	return 2 + 1 + 1 + 1 + characterWidth + 2 + timecodeWidth + 2
}

func (m Model) handleConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "q", "enter":
		m.savePosition()
		return m, tea.Quit
	default:
		m.confirmQuit = false
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Close()
		return m, nil
	case "tab":
		m.search.Complete()
		return m, nil
	case "enter":
		m.session.SetSearchTerm(m.search.Value())
		m.search.Close()
		m.rowCursor = m.firstMatchRow()
		return m, nil
	}
	return m, m.search.UpdateInput(msg)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "t":
		m.picker.Close()
	case "up", "k":
		m.picker.Up()
	case "down", "j":
		m.picker.Down()
	case "pgup":
		m.picker.PageUp(10)
	case "pgdown":
		m.picker.PageDown(10)
	case "enter":
		if m.session.SelectTake(m.picker.Cursor()) {
			m.rowCursor = 0
		}
		m.picker.Close()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.session.Pending() > 0 {
			m.confirmQuit = true
			return m, nil
		}
		m.savePosition()
		return m, tea.Quit
	}

	if !m.session.Loaded() || m.session.LoadError() != "" {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		before := m.session.Navigator().Index()
		m.session.Previous()
		if m.session.Navigator().Index() != before {
			m.rowCursor = m.firstMatchRow()
		}
	case "right", "l":
		before := m.session.Navigator().Index()
		m.session.Next()
		if m.session.Navigator().Index() != before {
			m.rowCursor = m.firstMatchRow()
		}
	case "up", "k":
		if m.rowCursor > 0 {
			m.rowCursor--
		}
	case "down", "j":
		m.rowCursor++
		m.clampRow()
	case "/":
		return m, m.search.Open(m.session.Navigator().Term())
	case "esc":
		m.session.SetSearchTerm("")
		m.status = ""
	case "t":
		if m.session.Navigator().Len() > 0 {
			m.picker.Show(m.session.Takes(), m.session.Navigator().Index())
		}
	case " ":
		if iv, ok := m.focused(); ok {
			if mut, ok := m.session.ToggleStatus(iv.ID); ok {
				return m, m.mutateCmd(mut)
			}
		}
	case "e", "enter":
		return m.beginEdit(review.FieldDialogue)
	case "c":
		return m.beginEdit(review.FieldTimecode)
	case "x":
		if !m.exporting {
			m.exporting = true
			m.setStatus("exporting…", false)
			return m, m.exportCmd()
		}
	}
	return m, nil
}

func (m Model) beginEdit(f review.Field) (tea.Model, tea.Cmd) {
	iv, ok := m.focused()
	if !ok {
		return m, nil
	}
	seed, ok := m.session.BeginEdit(iv.ID, f)
	if !ok {
		return m, nil
	}
	m.editor = &openEditor{id: iv.ID, field: f}
	if f == review.FieldTimecode {
		var initial *string
		if seed != "" {
			initial = &seed
		}
		m.editor.tc = timecode.NewEditor(initial, m.cfg.FPS())
		return m, nil
	}
	m.dialogue.SetValue(seed)
	m.dialogue.CursorEnd()
	return m, m.dialogue.Focus()
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor.field == review.FieldTimecode {
		return m.handleTimecodeKey(msg)
	}
	switch msg.String() {
	case "esc":
		m.session.Cancel(m.editor.id, review.FieldDialogue)
		m.closeEditor()
		return m, nil
	case "enter":
		return m.commitDialogue(0)
	case "tab":
		return m.commitDialogue(1)
	case "shift+tab":
		return m.commitDialogue(-1)
	}
	var cmd tea.Cmd
	m.dialogue, cmd = m.dialogue.Update(msg)
	return m, cmd
}

// commitDialogue closes the dialogue editor, sending the text if it
// changed, and moves the row focus by step (leaving the row commits).
func (m Model) commitDialogue(step int) (tea.Model, tea.Cmd) {
	id := m.editor.id
	mut, ok := m.session.CommitDialogue(id, m.dialogue.Value())
	m.closeEditor()
	m.rowCursor += step
	m.clampRow()
	if ok {
		return m, m.mutateCmd(mut)
	}
	return m, nil
}

func (m Model) handleTimecodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor.tc
	switch msg.String() {
	case "esc":
		ed.Cancel()
		m.session.Cancel(m.editor.id, review.FieldTimecode)
		m.closeEditor()
	case "enter":
		mut, ok := m.session.CommitTimecode(m.editor.id, ed.Commit())
		m.closeEditor()
		if ok {
			return m, m.mutateCmd(mut)
		}
	case "backspace":
		ed.Backspace()
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				ed.Digit(r)
			}
		}
	}
	return m, nil
}

func (m *Model) closeEditor() {
	m.editor = nil
	m.dialogue.Blur()
	m.dialogue.Reset()
}

// focused returns the intervention under the row cursor.
func (m Model) focused() (api.Intervention, bool) {
	t := m.session.CurrentTake()
	if t == nil || len(t.Interventions) == 0 {
		return api.Intervention{}, false
	}
	i := min(max(m.rowCursor, 0), len(t.Interventions)-1)
	return t.Interventions[i], true
}

func (m *Model) clampRow() {
	t := m.session.CurrentTake()
	if t == nil || len(t.Interventions) == 0 {
		m.rowCursor = 0
		return
	}
	m.rowCursor = min(max(m.rowCursor, 0), len(t.Interventions)-1)
}

// firstMatchRow puts the cursor on the first pending line of the searched
// character in the current take, or on the first row.
func (m Model) firstMatchRow() int {
	t := m.session.CurrentTake()
	if t == nil {
		return 0
	}
	term := m.session.Navigator().Term()
	for i, iv := range t.Interventions {
		if review.RowTone(iv, term) == review.TonePendingMatch {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderNavBar())
	b.WriteString("\n")

	bodyH := max(m.height-6, 3)
	if m.search.IsActive() {
		bodyH = max(bodyH-4, 3)
	}
	b.WriteString(m.renderBody(bodyH))
	b.WriteString("\n")

	if m.search.IsActive() {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderMessageLine())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	out := b.String()
	if m.confirmQuit {
		return overlayCenter(out, m.renderConfirmQuit(), m.width, m.height)
	}
	if m.picker.IsVisible() {
		return overlayCenter(out, m.picker.View(), m.width, m.height)
	}
	return out
}

func (m Model) renderHeader() string {
	bg := lipgloss.NewStyle().Background(ColorBarBg)

	title := bg.Foreground(ColorCyan).Bold(true).Render(" ASREC ")
	chapter := fmt.Sprintf("chapter %d", m.chapterID)
	if ch := m.session.Chapter(); ch != nil {
		chapter = fmt.Sprintf("Chapter %d", ch.Number)
		if ch.Title != nil && *ch.Title != "" {
			chapter += " · " + *ch.Title
		}
	}
	left := title + bg.Foreground(ColorBarText).Render(" "+chapter+" ")

	var right string
	if takes := m.session.Takes(); len(takes) > 0 {
		var values []float64
		done, total := 0, 0
		for _, t := range takes {
			d, n := takeProgress(t)
			done += d
			total += n
			if n > 0 {
				values = append(values, float64(d)/float64(n))
			} else {
				values = append(values, 0)
			}
		}
		spark := bg.Foreground(ColorGreenDim).Render(Sparkline(values, min(len(values), 30)))
		right = spark + bg.Foreground(ColorBarText).Render(fmt.Sprintf("  %d/%d done ", done, total))
	}
	if n := m.session.Pending(); n > 0 {
		right = bg.Foreground(ColorYellow).Render(fmt.Sprintf(" %d saving ", n)) + right
	}

	spacer := bg.Render(strings.Repeat(" ", max(m.width-visibleLen(left)-visibleLen(right), 1)))
	return left + spacer + right
}

func (m Model) renderNavBar() string {
	nav := m.session.Navigator()
	if nav.Len() == 0 {
		return ""
	}

	prev := DimStyle.Render("◂ prev")
	if nav.CanPrevious() {
		prev = HeaderStyle.Render("◂ prev")
	}
	next := DimStyle.Render("next ▸")
	if nav.CanNext() {
		next = HeaderStyle.Render("next ▸")
	}

	cur := m.session.CurrentTake()
	label := SelectedStyle.Render(TakeLabel(*cur)) +
		DimStyle.Render(fmt.Sprintf("  %d/%d", nav.Index()+1, nav.Len()))
	if d, ok := takeDuration(*cur, m.cfg.FPS()); ok {
		label += DimStyle.Render("  len " + d)
	}

	line := " " + prev + "  " + label + "  " + next
	if term := strings.TrimSpace(nav.Term()); term != "" {
		line += "   " + DimStyle.Render("search: ") + PendingMatchStyle.Render(term)
	}
	return line
}

// takeDuration is tcOut minus tcIn when both are set and valid.
func takeDuration(t api.Take, fps int) (string, bool) {
	if t.TCIn == nil || t.TCOut == nil {
		return "", false
	}
	in, err := timecode.Frames(*t.TCIn, fps)
	if err != nil {
		return "", false
	}
	out, err := timecode.Frames(*t.TCOut, fps)
	if err != nil || out < in {
		return "", false
	}
	return timecode.FromFrames(out-in, fps), true
}

func (m Model) renderBody(h int) string {
	s := m.session
	switch {
	case !s.Loaded():
		return RenderPanel("REVIEW", "\n"+DimStyle.Render(fmt.Sprintf("  Loading chapter %d…", m.chapterID)), m.width, h, false)
	case s.LoadError() != "":
		content := "\n  " + ErrorStyle.Bold(true).Render(s.LoadError()) +
			"\n\n  " + DimStyle.Render("Back to the series list: asrec series")
		return RenderPanel("ERROR", content, m.width, h, false)
	case s.Empty():
		return RenderPanel("REVIEW", "\n"+DimStyle.Render("  No takes in this chapter."), m.width, h, false)
	}

	t := s.CurrentTake()
	title := fmt.Sprintf("TAKE %d", t.Number)
	if len(t.Interventions) == 0 {
		return RenderPanel(title, "\n"+DimStyle.Render("  No interventions in this take."), m.width, h, true)
	}

	innerW := m.width - 3
	term := s.Navigator().Term()
	var lines []string
	focusStart, focusEnd := 0, 0
	for i, iv := range t.Interventions {
		v := rowView{
			focused: i == m.rowCursor,
			tone:    review.RowTone(iv, term),
			busy:    s.Busy(iv.ID),
			frame:   m.frame,
		}
		for _, f := range []review.Field{review.FieldStatus, review.FieldDialogue, review.FieldTimecode} {
			if s.Error(iv.ID, f) != "" {
				v.errors = append(v.errors, f.String())
			}
		}
		if m.editor != nil && m.editor.id == iv.ID {
			v.editor = m.editor
			v.dialogue = m.dialogue.View()
		}
		if v.focused {
			focusStart = len(lines)
		}
		lines = append(lines, renderRow(iv, v, innerW)...)
		if v.focused {
			focusEnd = len(lines)
		}
	}

	// Scroll so the focused row is fully visible.
	start := 0
	if focusEnd > h {
		start = min(focusStart, focusEnd-h)
	}
	end := min(start+h, len(lines))
	visible := lines[start:end]

	scrollbar := RenderScrollbar(h, len(lines), start)
	out := make([]string, h)
	for i := range out {
		l := ""
		if i < len(visible) {
			l = visible[i]
		}
		if visibleLen(l) > innerW {
			l = truncateToWidth(l, innerW)
		}
		out[i] = l + strings.Repeat(" ", max(innerW-visibleLen(l), 0)) + scrollbar[i]
	}
	return RenderPanel(title, strings.Join(out, "\n"), m.width, h, true)
}

// renderMessageLine shows, in order of precedence, the focused row's edit
// errors, the navigator message, then the transient status.
func (m Model) renderMessageLine() string {
	if iv, ok := m.focused(); ok && m.session.Loaded() {
		var errs []string
		for _, f := range []review.Field{review.FieldStatus, review.FieldDialogue, review.FieldTimecode} {
			if e := m.session.Error(iv.ID, f); e != "" {
				errs = append(errs, fmt.Sprintf("%s: %s", f, e))
			}
		}
		if len(errs) > 0 {
			return " " + ErrorStyle.Bold(true).Render("! ") + ErrorStyle.Render(strings.Join(errs, "  "))
		}
	}
	if msg := m.session.Navigator().Message(); msg != "" {
		return " " + InfoStyle.Render(msg)
	}
	if m.status != "" {
		if m.statusErr {
			return " " + ErrorStyle.Render(m.status)
		}
		return " " + DimStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderStatusBar() string {
	bg := lipgloss.NewStyle().Background(ColorBarBg)

	leftText := "  [←/→] Take  [↑/↓] Line  [/] Search  [t] Takes  [space] Done  [e] Dialogue  [c] TC  [x] Export  [q] Quit"
	if m.editor != nil {
		leftText = "  [Enter] Save  [Esc] Cancel"
	}
	left := bg.Foreground(ColorBarText).Render(ellipsize(leftText, m.width))

	right := ""
	if m.cfg.FPS() != timecode.DefaultFPS {
		right = StatusBarStyle.Render(fmt.Sprintf("%d fps", m.cfg.FPS()))
	}

	spacer := bg.Render(strings.Repeat(" ", max(m.width-visibleLen(left)-visibleLen(right), 0)))
	return left + spacer + right
}

func (m Model) renderConfirmQuit() string {
	bc := lipgloss.NewStyle().Foreground(ColorYellow)
	tc := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	dim := lipgloss.NewStyle().Foreground(ColorDim)

	innerW := 34
	side := bc.Render("┃")

	var rows []string
	title := " QUIT "
	fillLen := max(innerW-3-len(title), 0)
	rows = append(rows, bc.Render("┏━╸")+tc.Render(title)+bc.Render("╺"+strings.Repeat("━", fillLen)+"┓"))
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)

	q := fmt.Sprintf("  %d edits still saving. Quit?", m.session.Pending())
	qStyled := lipgloss.NewStyle().Foreground(ColorWhite).Bold(true).Render(q)
	rows = append(rows, side+qStyled+strings.Repeat(" ", max(innerW-visibleLen(qStyled), 0))+side)
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)

	opts := fmt.Sprintf("  %s yes  %s no", SelectedStyle.Render("[y/q]"), dim.Render("[n]"))
	rows = append(rows, side+opts+strings.Repeat(" ", max(innerW-visibleLen(opts), 0))+side)
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)
	rows = append(rows, bc.Render("┗"+strings.Repeat("━", innerW)+"┛"))

	return strings.Join(rows, "\n")
}
