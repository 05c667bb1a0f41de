// Package taxonomy builds the robot/smart-factory skill taxonomy.
//
// The taxonomy is a flat, ordered list of Skill records assembled from static
// source tables (see Tables). Six domains each contribute three tiers:
//
//	knowledge  → theoretical foundations, proficiency taken from the table
//	skill      → applied techniques, proficiency and roles assigned by position
//	competence → demonstrated on-the-job capability, proficiency 3 or 4
//
// Identifiers are sequential per domain (RSF-IRC-001, RSF-IRC-002, ...) so the
// output is a pure function of the tables. Parent links are positional
// heuristics and are not checked against the emitted records; use Validate for
// a post-hoc report.
package taxonomy
