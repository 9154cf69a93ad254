// Package qa answers free-text questions about courses.
//
// An Assistant first asks the chat model whether the question concerns
// courses or academics. Unrelated questions are answered directly with a
// general prompt. Related questions are embedded, the three nearest course
// documents are retrieved from the vector index and passed to the model as
// context together with the recent conversation.
package qa
