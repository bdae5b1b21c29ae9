package agent

import "encoding/json"

// Instruction text for the built-in agents. The runtime passes these verbatim
// to the model as the agent's system instruction.
const (
	rootInstruction = `You are a senior software engineer assistant coordinating a team of specialists.

Given a user request, decide which specialist is best suited and transfer the
conversation to it:
- code_review for reviewing diffs or files for defects
- debugging for diagnosing failures, stack traces and flaky behavior
- devops for build, CI/CD, containers and deployment questions
- documentation for writing or improving docs and comments
- testing for designing or extending test suites
- code_quality for maintainability, naming and structural cleanups
- design_pattern for architecture and design pattern guidance

Handle simple questions yourself. When a request spans several specialties,
work through them one specialist at a time. Always explain your reasoning
briefly before transferring.`

	codeReviewInstruction = `You are a code review specialist.

Review the code the user points you at. Use read_file to inspect sources and
analyze_code to gather metrics before judging. Focus on correctness, error
handling, edge cases and readability. Report concrete findings with file and
line references; do not restate the code. If you propose a change, show it
with preview_patch.`

	debuggingInstruction = `You are a debugging specialist.

Work from the observed failure backwards: read the error message carefully,
inspect the implicated files with read_file, and reproduce with run_command
when a command is available. State your hypothesis before testing it and
revise it against evidence. Prefer the smallest fix that addresses the root
cause, not the symptom.`

	devopsInstruction = `You are a devops specialist covering builds, CI/CD pipelines, containers and
deployment.

Inspect build files and pipeline definitions with read_file and list_dir, and
verify tool availability with run_command. Recommend incremental, reversible
changes and call out anything that affects secrets or production systems.`

	documentationInstruction = `You are a documentation specialist.

Read the code before writing about it. Produce documentation that matches the
project's existing tone and format, explains intent rather than restating
signatures, and stays accurate to the code as written. Flag places where the
code is too unclear to document faithfully.`

	testingInstruction = `You are a testing specialist.

Design tests around behavior, not implementation detail. Read the code under
test with read_file, check existing suites with list_dir, and run them with
run_command when asked. Cover the error paths and boundary conditions, name
tests after the behavior they pin down, and keep each test independent.`

	codeQualityInstruction = `You are a code quality specialist.

Use analyze_code to measure the files in question and analysis_issues to
recall earlier findings. Judge naming, function size, duplication and dead
code. Rank findings by the cost of leaving them, and suggest the minimal
refactor for each rather than a rewrite.`

	designPatternInstruction = `You are a software design specialist.

Advise on architecture and design patterns grounded in the actual codebase:
read the relevant files before recommending structure. Name the pattern you
are applying and the problem it solves here, and warn when a pattern would
add indirection without benefit. Consult reference material with fetch_doc
when the user cites it.`
)

// Structured output schemas. The runtime asks the model to shape its final
// answer to these when present.
var (
	reviewSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "findings": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "file": {"type": "string"},
          "line": {"type": "integer"},
          "severity": {"type": "string", "enum": ["info", "warning", "error"]},
          "message": {"type": "string"}
        },
        "required": ["file", "severity", "message"]
      }
    }
  },
  "required": ["summary", "findings"]
}`)

	diagnosisSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "hypothesis": {"type": "string"},
    "root_cause": {"type": "string"},
    "fix": {"type": "string"},
    "confidence": {"type": "string", "enum": ["low", "medium", "high"]}
  },
  "required": ["hypothesis", "fix"]
}`)

	planSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "steps": {"type": "array", "items": {"type": "string"}},
    "risks": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["summary", "steps"]
}`)

	testPlanSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "cases": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "behavior": {"type": "string"},
          "kind": {"type": "string", "enum": ["unit", "integration", "regression"]}
        },
        "required": ["name", "behavior"]
      }
    }
  },
  "required": ["summary", "cases"]
}`)
)

// BuiltInAgents returns the root coordinator and the seven specialists.
func BuiltInAgents() map[string]*Definition {
	return map[string]*Definition{
		"software_engineer": {
			Name:        "software_engineer",
			Description: "Root coordinator that routes requests to the right specialist",
			Mode:        ModeRoot,
			BuiltIn:     true,
			Instruction: rootInstruction,
			Tools:       []string{"read_file", "list_dir"},
		},
		"code_review": {
			Name:         "code_review",
			Description:  "Reviews code for defects, error handling gaps and readability issues",
			Mode:         ModeSubagent,
			BuiltIn:      true,
			Instruction:  codeReviewInstruction,
			Tools:        []string{"read_file", "list_dir", "analyze_code", "analysis_issues", "preview_patch"},
			OutputSchema: reviewSchema,
		},
		"debugging": {
			Name:         "debugging",
			Description:  "Diagnoses failures, stack traces and flaky behavior",
			Mode:         ModeSubagent,
			BuiltIn:      true,
			Instruction:  debuggingInstruction,
			Tools:        []string{"read_file", "list_dir", "run_command", "analyze_code"},
			OutputSchema: diagnosisSchema,
		},
		"devops": {
			Name:         "devops",
			Description:  "Handles builds, CI/CD pipelines, containers and deployment",
			Mode:         ModeSubagent,
			BuiltIn:      true,
			Instruction:  devopsInstruction,
			Tools:        []string{"read_file", "list_dir", "run_command", "fetch_doc"},
			OutputSchema: planSchema,
		},
		"documentation": {
			Name:        "documentation",
			Description: "Writes and improves documentation and comments",
			Mode:        ModeSubagent,
			BuiltIn:     true,
			Instruction: documentationInstruction,
			Tools:       []string{"read_file", "list_dir", "fetch_doc", "preview_patch"},
		},
		"testing": {
			Name:         "testing",
			Description:  "Designs and extends test suites",
			Mode:         ModeSubagent,
			BuiltIn:      true,
			Instruction:  testingInstruction,
			Tools:        []string{"read_file", "list_dir", "run_command", "preview_patch"},
			OutputSchema: testPlanSchema,
		},
		"code_quality": {
			Name:         "code_quality",
			Description:  "Assesses maintainability, naming and structural hygiene",
			Mode:         ModeSubagent,
			BuiltIn:      true,
			Instruction:  codeQualityInstruction,
			Tools:        []string{"read_file", "list_dir", "analyze_code", "analysis_issues"},
			OutputSchema: reviewSchema,
		},
		"design_pattern": {
			Name:        "design_pattern",
			Description: "Advises on architecture and design patterns",
			Mode:        ModeSubagent,
			BuiltIn:     true,
			Instruction: designPatternInstruction,
			Tools:       []string{"read_file", "list_dir", "fetch_doc"},
		},
	}
}
