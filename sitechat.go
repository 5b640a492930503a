// Package sitechat provides a website-grounded chat service for a single
// business site. It crawls the site, extracts plain-text content, splits it
// into lexical chunks, and answers visitor questions with an LLM prompt
// assembled from retrieved chunks and structured facts about the business.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package sitechat
