// Package github reconciles declared labels and milestones against the live
// state of GitHub repositories.
//
// The package includes:
// - APIClient interface for the label, milestone and issue endpoints
// - Reconciler interface that plans discrepancies and applies them
// - Pure diff functions for labels and milestones
// - Milestone migration planning for milestones that replace a retiring one
package github
