// Package agent defines the declarative agent records interpreted by the
// orchestration runtime: a root software_engineer coordinator and seven
// specialist sub-agents (code_review, debugging, devops, documentation,
// testing, code_quality, design_pattern).
//
// Each [Definition] is pure configuration: a model reference, an instruction
// string, a tool ID list and an optional JSON Schema for structured answers.
// The conversation loop, tool-call planning and delegation between agents are
// owned by the external runtime; nothing in this package executes a model.
//
// The [Registry] holds the definitions, seeded from [BuiltInAgents] and
// adjusted by user configuration via [Registry.ApplyConfig]: per-agent model
// or instruction overrides, tool restriction, disabling specialists, and
// project rule strings appended to every instruction.
package agent
