// Package intent classifies free text from the assistant box into a
// structured intent: a PNR lookup, a search refinement (fastest or
// cheapest), or general help.
//
// Rules are checked in order and the first match wins:
//
//  1. a ten digit number: PNR lookup
//  2. fastest, quickest, shortest: search sorted by duration
//  3. cheapest, cheap, budget, lowest fare: search sorted by fare
//  4. anything else: general help with example prompts
//
// Classify is pure and safe for concurrent use.
package intent
