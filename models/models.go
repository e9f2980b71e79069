package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. characters - Interviewer personas, seeded from static configuration
// 3. interview_types - Interview categories (technical, behavioral, case-study)
// 4. interview_sessions - Records each interview attempt with its state machine status
// 5. messages - Stores the ordered, turn-by-turn transcript of a session
// 6. session_summaries - Stores the final scored feedback report
