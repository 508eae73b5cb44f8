package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nconklindev/manifest/internal/converter"
	"github.com/nconklindev/manifest/internal/manifest"
	"github.com/nconklindev/manifest/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const statusTimeout = 3 * time.Second

type state int

const (
	stateFilePicker state = iota
	stateLoading
	statePreview
	stateError
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	text string
	kind statusKind
	id   int
}

// Options wires the model to its surroundings.
type Options struct {
	StartDir   string
	OutputDir  string
	Logger     *zap.Logger
	Normalizer *manifest.Normalizer
}

type Model struct {
	state        state
	filepicker   filepicker.Model
	table        table.Model
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	normalizer   *manifest.Normalizer
	store        *manifest.Store
	selected     map[int]bool
	selectedFile string
	outputDir    string
	logger       *zap.Logger
	status       status
	err          error
	width        int
	height       int
}

type fileLoadedMsg struct {
	path string
	rows []manifest.RawRow
	err  error
}

type exportedMsg struct {
	result *types.ExportResult
	err    error
}

type clearStatusMsg struct {
	id int
}

var columns = []table.Column{
	{Title: " ", Width: 1},
	{Title: "Reference", Width: 14},
	{Title: "Line", Width: 5},
	{Title: "ISBN", Width: 15},
	{Title: "Date", Width: 8},
	{Title: "Courier", Width: 7},
	{Title: "Qty", Width: 5},
	{Title: "Status", Width: 6},
	{Title: "Tracking Ref", Width: 25},
}

func InitialModel(opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = converter.AllowedTypes
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithStyles(tableStyles()),
	)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(accent)),
	)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = manifest.NewNormalizer()
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	keys := defaultKeyMap()
	keys.setHasData(false)

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		table:      t,
		spinner:    sp,
		help:       help.New(),
		keys:       keys,
		normalizer: normalizer,
		store:      manifest.NewStore(),
		selected:   make(map[int]bool),
		outputDir:  outputDir,
		logger:     logger,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5 // Minimum height
		}

		m.filepicker.SetHeight(height)
		m.table.SetHeight(height)
		m.help.Width = msg.Width

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc":
				if m.store.HasData() {
					m.state = statePreview
					return m, nil
				}
			}

		case stateLoading:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case statePreview:
			return m.updatePreview(msg)

		case stateError:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter", "esc":
				m.err = nil
				m.state = stateFilePicker
				return m, nil
			}
			return m, nil
		}

	case fileLoadedMsg:
		return m.handleFileLoaded(msg)

	case exportedMsg:
		return m.handleExported(msg)

	case clearStatusMsg:
		if msg.id == m.status.id {
			m.status = status{id: m.status.id}
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == stateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, loadFile(path))
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		m.state = stateFilePicker
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		idx := m.table.Cursor()
		if m.selected[idx] {
			delete(m.selected, idx)
		} else {
			m.selected[idx] = true
		}
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		if len(m.selected) == m.store.Len() {
			clear(m.selected)
		} else {
			for i := range m.store.Len() {
				m.selected[i] = true
			}
		}
		m.refreshTable()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		idx := m.table.Cursor()
		if err := m.store.DeleteAt(idx); err != nil {
			m.logger.Warn("delete row", zap.Int("index", idx), zap.Error(err))
			cmd := m.setStatus(err.Error(), statusWarning)
			return m, cmd
		}
		m.logger.Debug("row deleted", zap.Int("index", idx), zap.Int("remaining", m.store.Len()))
		clear(m.selected)
		m.refreshTable()
		cmd := m.setStatus("Row deleted", statusSuccess)
		return m, cmd

	case key.Matches(msg, m.keys.DeleteSelected):
		if len(m.selected) == 0 {
			cmd := m.setStatus("No rows selected", statusWarning)
			return m, cmd
		}
		indices := make([]int, 0, len(m.selected))
		for idx := range m.selected {
			indices = append(indices, idx)
		}
		slices.Sort(indices)

		n, err := m.store.DeleteMany(indices)
		if err != nil {
			m.logger.Warn("delete selected rows", zap.Ints("indices", indices), zap.Error(err))
			cmd := m.setStatus(err.Error(), statusWarning)
			return m, cmd
		}
		m.logger.Debug("rows deleted", zap.Int("count", n), zap.Int("remaining", m.store.Len()))
		clear(m.selected)
		m.refreshTable()
		cmd := m.setStatus(fmt.Sprintf("Deleted %d row(s)", n), statusSuccess)
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		// The write happens off the update loop, so hand it a copy.
		snapshot := manifest.NewStore()
		snapshot.ReplaceAll(m.store.Records())
		return m, exportManifest(snapshot, m.selectedFile, m.outputDir)

	case key.Matches(msg, m.keys.Clear):
		m.store.Clear()
		clear(m.selected)
		m.refreshTable()
		m.selectedFile = ""
		m.state = stateFilePicker
		m.logger.Info("data cleared")
		cmd := m.setStatus("All data cleared", statusInfo)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFileLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Nothing from a failed read reaches the store.
		m.logger.Error("load spreadsheet", zap.String("file", msg.path), zap.Error(msg.err))
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	records := m.normalizer.Normalize(msg.rows)
	if len(records) == 0 {
		// An empty sheet leaves the current batch in place.
		m.logger.Warn("spreadsheet has no data rows", zap.String("file", msg.path))
		m.state = stateFilePicker
		if m.store.HasData() {
			m.state = statePreview
		}
		cmd := m.setStatus(fmt.Sprintf("No rows found in %s", filepath.Base(msg.path)), statusWarning)
		return m, cmd
	}

	m.store.ReplaceAll(records)
	clear(m.selected)
	m.refreshTable()
	m.table.SetCursor(0)
	m.state = statePreview

	m.logger.Info("file processed",
		zap.String("file", msg.path),
		zap.Int("records", len(records)),
		zap.String("tracking_ref", records[0].TrackingRef))
	cmd := m.setStatus("File processed successfully", statusSuccess)
	return m, cmd
}

func (m Model) handleExported(msg exportedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, manifest.ErrNoData) {
			cmd := m.setStatus("No data to download", statusWarning)
			return m, cmd
		}
		m.logger.Error("export manifest", zap.Error(msg.err))
		cmd := m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), statusError)
		return m, cmd
	}

	m.logger.Info("manifest exported",
		zap.String("output", msg.result.OutputFile),
		zap.Int("records", msg.result.RecordsWritten),
		zap.String("tracking_ref", msg.result.TrackingRef))
	cmd := m.setStatus(fmt.Sprintf("Saved %s", msg.result.OutputFile), statusSuccess)
	return m, cmd
}

// setStatus shows a message and schedules it to disappear.
func (m *Model) setStatus(text string, kind statusKind) tea.Cmd {
	id := m.status.id + 1
	m.status = status{text: text, kind: kind, id: id}
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// refreshTable rebuilds the table rows from the store and keeps the cursor
// inside the new bounds.
func (m *Model) refreshTable() {
	records := m.store.Records()
	rows := make([]table.Row, len(records))
	for i, rec := range records {
		mark := " "
		if m.selected[i] {
			mark = "✓"
		}
		rows[i] = append(table.Row{mark}, rec.Fields()...)
	}
	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	m.keys.setHasData(m.store.HasData())
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		rows, err := converter.LoadRows(path)
		return fileLoadedMsg{path: path, rows: rows, err: err}
	}
}

func exportManifest(store *manifest.Store, inputFile, outputDir string) tea.Cmd {
	return func() tea.Msg {
		result, err := converter.WriteManifest(store, inputFile, outputDir)
		return exportedMsg{result: result, err: err}
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case statePreview:
		return m.viewPreview()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewStatus() string {
	if m.status.text == "" {
		return ""
	}
	switch m.status.kind {
	case statusSuccess:
		return SuccessStyle.Render("✓ " + m.status.text)
	case statusWarning:
		return WarningStyle.Render("! " + m.status.text)
	case statusError:
		return ErrorStyle.Render("✗ " + m.status.text)
	default:
		return InfoStyle.Render(m.status.text)
	}
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📦 Manifest - Spreadsheet to PBS Converter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an XLSX or CSV order sheet"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")
	if st := m.viewStatus(); st != "" {
		s.WriteString("\n")
		s.WriteString(st)
		s.WriteString("\n")
	}

	hint := "Press q to quit"
	if m.store.HasData() {
		hint = "esc: back to preview • q: quit"
	}
	s.WriteString(HelpStyle.Render(hint))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📦 Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s", m.spinner.View(), filepath.Base(m.selectedFile)))

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📦 Manifest Preview"))
	s.WriteString("\n")

	if !m.store.HasData() {
		s.WriteString(SubtitleStyle.Render("No data loaded"))
	} else {
		records := m.store.Records()
		name, _ := m.store.Filename()
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s • %d record(s) • %d selected • tracking %s • exports as %s",
			filepath.Base(m.selectedFile), len(records), len(m.selected), records[0].TrackingRef, name)))
		s.WriteString("\n")
		s.WriteString(m.table.View())
	}
	s.WriteString("\n")

	if st := m.viewStatus(); st != "" {
		s.WriteString("\n")
		s.WriteString(st)
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error processing file"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: choose another file • q: quit"))

	return BoxStyle.Render(s.String())
}
