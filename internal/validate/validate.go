// Package validate scores generated workflow artifacts after the fact:
// task list format, plan structure, code block statistics, and task
// coverage of the implementation log. Validation never gates the
// pipeline; it is a separate inspection surface.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/workflow"
)

var (
	checkboxRe = regexp.MustCompile(`^\s*-\s*\[`)
	taskRe     = regexp.MustCompile(`^\s*-\s*\[\s*[xX]?\s*\]\s*(T\d+)?\s*(\[P\])?\s*(\[US\d+\])?\s*(.*)$`)
	taskIDRe   = regexp.MustCompile(`\bT\d+\b`)
	headerRe   = regexp.MustCompile(`^\s*#{2,3}\s*(.+)$`)
)

// TaskFormatReport summarizes how well a task list follows the expected
// checkbox grammar.
type TaskFormatReport struct {
	Valid         bool     `yaml:"valid"`
	TotalTasks    int      `yaml:"total_tasks"`
	WithIDs       int      `yaml:"tasks_with_ids"`
	WithFilePaths int      `yaml:"tasks_with_file_paths"`
	ParallelTasks int      `yaml:"parallel_tasks"`
	StoryTasks    int      `yaml:"story_labeled_tasks"`
	Errors        []string `yaml:"errors,omitempty"`
	Warnings      []string `yaml:"warnings,omitempty"`
}

// TaskFormat validates a task list document. Duplicate task IDs and an
// empty list are errors; missing IDs or unmatched lines are warnings.
func TaskFormat(tasks string) TaskFormatReport {
	report := TaskFormatReport{Valid: true}
	parser := workflow.NewParser(nil)
	seen := make(map[string]bool)

	for lineNum, line := range strings.Split(tasks, "\n") {
		if !checkboxRe.MatchString(line) {
			continue
		}
		report.TotalTasks++

		m := taskRe.FindStringSubmatch(line)
		if m == nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("line %d: task doesn't match expected format", lineNum+1))
			continue
		}
		id, parallel, story, desc := m[1], m[2], m[3], m[4]

		if id == "" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("line %d: task missing ID", lineNum+1))
		} else {
			report.WithIDs++
			if seen[id] {
				report.Errors = append(report.Errors,
					fmt.Sprintf("line %d: duplicate task ID %s", lineNum+1, id))
				report.Valid = false
			}
			seen[id] = true
		}
		if parallel != "" {
			report.ParallelTasks++
		}
		if story != "" {
			report.StoryTasks++
		}
		if len(parser.Parse(fmt.Sprintf("- [ ] T999 %s", desc))) > 0 {
			report.WithFilePaths++
		}
	}

	if report.TotalTasks == 0 {
		report.Errors = append(report.Errors, "no tasks found in document")
		report.Valid = false
	}
	return report
}

// PlanReport records which expected sections a plan contains.
type PlanReport struct {
	Summary              bool `yaml:"summary"`
	TechnicalContext     bool `yaml:"technical_context"`
	ConstitutionCheck    bool `yaml:"constitution_check"`
	ProjectStructure     bool `yaml:"project_structure"`
	DataModel            bool `yaml:"data_model"`
	ImplementationPhases bool `yaml:"implementation_phases"`
}

// PlanSections checks a plan for the sections the plan prompt asks for.
// Matching is loose on purpose: generated section titles vary.
func PlanSections(plan string) PlanReport {
	lower := strings.ToLower(plan)
	return PlanReport{
		Summary:           strings.Contains(lower, "summary"),
		TechnicalContext:  strings.Contains(lower, "technical context") || strings.Contains(lower, "tech stack"),
		ConstitutionCheck: strings.Contains(lower, "constitution"),
		ProjectStructure:  strings.Contains(lower, "project structure") || strings.Contains(lower, "directory structure"),
		DataModel:         strings.Contains(lower, "data model") || strings.Contains(lower, "entities"),
		ImplementationPhases: strings.Contains(lower, "phase") &&
			(strings.Contains(lower, "implementation") || strings.Contains(lower, "phases")),
	}
}

// Principles extracts principle names from a constitution: second and
// third level headers, minus the common structural ones.
func Principles(constitution string) []string {
	skip := map[string]bool{
		"core principles":        true,
		"principles":             true,
		"governance":             true,
		"additional constraints": true,
		"sections":               true,
	}

	var principles []string
	for _, line := range strings.Split(constitution, "\n") {
		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name != "" && !skip[strings.ToLower(name)] {
			principles = append(principles, name)
		}
	}
	return principles
}

// CodeBlockReport summarizes the fenced blocks in an implementation log.
type CodeBlockReport struct {
	TotalBlocks   int      `yaml:"total_code_blocks"`
	WithLanguage  int      `yaml:"blocks_with_language"`
	WithFilePaths int      `yaml:"blocks_with_file_paths"`
	Languages     []string `yaml:"languages_found,omitempty"`
	FilePaths     []string `yaml:"file_paths,omitempty"`
}

// CodeBlockStats inspects the fenced blocks of generated text.
func CodeBlockStats(implementation string) CodeBlockReport {
	report := CodeBlockReport{}
	langs := make(map[string]bool)

	for _, block := range workflow.ExtractCodeBlocks(implementation) {
		report.TotalBlocks++
		if block.Language != "" {
			report.WithLanguage++
			langs[block.Language] = true
		}
		if block.FilePath != "" {
			report.WithFilePaths++
			report.FilePaths = append(report.FilePaths, block.FilePath)
		}
	}

	for lang := range langs {
		report.Languages = append(report.Languages, lang)
	}
	sort.Strings(report.Languages)
	return report
}

// CoverageReport compares the task IDs in the task list against those
// mentioned in the implementation log.
type CoverageReport struct {
	TotalTasks      int      `yaml:"total_tasks"`
	TasksMentioned  int      `yaml:"tasks_mentioned"`
	CoveragePercent float64  `yaml:"coverage_percentage"`
	MissingTasks    []string `yaml:"missing_tasks,omitempty"`
	ExtraTasks      []string `yaml:"extra_tasks,omitempty"`
}

// TaskCoverage reports which task IDs the implementation log covers.
func TaskCoverage(implementation, tasks string) CoverageReport {
	taskIDs := idSet(tasks)
	mentioned := idSet(implementation)

	report := CoverageReport{
		TotalTasks:     len(taskIDs),
		TasksMentioned: len(mentioned),
	}
	if len(taskIDs) > 0 {
		covered := 0
		for id := range taskIDs {
			if mentioned[id] {
				covered++
			} else {
				report.MissingTasks = append(report.MissingTasks, id)
			}
		}
		report.CoveragePercent = float64(covered) / float64(len(taskIDs)) * 100
	}
	for id := range mentioned {
		if !taskIDs[id] {
			report.ExtraTasks = append(report.ExtraTasks, id)
		}
	}
	sort.Strings(report.MissingTasks)
	sort.Strings(report.ExtraTasks)
	return report
}

func idSet(text string) map[string]bool {
	ids := make(map[string]bool)
	for _, id := range taskIDRe.FindAllString(text, -1) {
		ids[id] = true
	}
	return ids
}

// Report is the combined validation result for a workflow directory.
type Report struct {
	ConstitutionExists bool              `yaml:"constitution_exists"`
	SpecExists         bool              `yaml:"spec_exists"`
	Principles         []string          `yaml:"principles,omitempty"`
	Plan               *PlanReport       `yaml:"plan,omitempty"`
	Tasks              *TaskFormatReport `yaml:"tasks,omitempty"`
	CodeBlocks         *CodeBlockReport  `yaml:"code_blocks,omitempty"`
	Coverage           *CoverageReport   `yaml:"task_coverage,omitempty"`
	OverallValid       bool              `yaml:"overall_valid"`
}

// Workflow validates every artifact present in a store. Missing source
// documents make the whole report invalid; missing generated artifacts
// are simply omitted.
func Workflow(store *artifact.Store) (*Report, error) {
	report := &Report{
		ConstitutionExists: store.Exists(artifact.Constitution),
		SpecExists:         store.Exists(artifact.Spec),
		OverallValid:       true,
	}
	if !report.ConstitutionExists || !report.SpecExists {
		report.OverallValid = false
	}

	if report.ConstitutionExists {
		constitution, err := store.Read(artifact.Constitution)
		if err != nil {
			return nil, err
		}
		report.Principles = Principles(constitution)
	}

	if store.Exists(artifact.Plan) {
		plan, err := store.Read(artifact.Plan)
		if err != nil {
			return nil, err
		}
		sections := PlanSections(plan)
		report.Plan = &sections
	}

	var tasks string
	if store.Exists(artifact.Tasks) {
		var err error
		tasks, err = store.Read(artifact.Tasks)
		if err != nil {
			return nil, err
		}
		format := TaskFormat(tasks)
		report.Tasks = &format
		if !format.Valid {
			report.OverallValid = false
		}
	}

	if store.Exists(artifact.Implementation) {
		implementation, err := store.Read(artifact.Implementation)
		if err != nil {
			return nil, err
		}
		blocks := CodeBlockStats(implementation)
		report.CodeBlocks = &blocks
		if tasks != "" {
			coverage := TaskCoverage(implementation, tasks)
			report.Coverage = &coverage
		}
	}

	return report, nil
}
