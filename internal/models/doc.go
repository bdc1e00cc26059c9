// Package models defines the core domain models for Meetpoint.
//
// # Models
//
//   - Session: aggregate root for a live meetup; owns the status state
//     machine, the invite code and the optional meeting location
//   - SessionParticipant: one membership row per (session, user) pair
//   - ParticipantLocation: the latest reported location per participant
//   - User: registered account backing authentication and display names
//
// # Design principles
//
//  1. **Invariants live in methods**: status transitions and meeting
//     location changes go through Session.End and
//     Session.SetMeetingLocation, which enforce ownership and lifecycle
//     rules. There are no raw setters.
//  2. **Fresh vs. loaded are separate paths**: NewSession assigns ids,
//     codes and timestamps; storage reconstructs structs field by field
//     and never re-runs creation logic.
//  3. **Latest-only locations**: ParticipantLocation is an upsert target,
//     not a history table. A participant has at most one row.
//  4. **Avoid circular references**: relationships use id fields, not
//     pointers between models.
package models
