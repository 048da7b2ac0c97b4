// Package events defines the typed session event contract emitted by the
// orchestration core towards the transport.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - assistant_response.*
//   - assistant_speech.*
//   - assistant_playback.*
//   - turn_state.*
//
// Semantics used across the package:
//
//   - Frame: binary audio payload.
//   - Segment: append-only text piece emitted in stream order.
//   - Interim: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text/state for the current stream/turn.
//
// user_input events
//
//   - UserTranscriptInterim (user_input.transcript_interim): live preview
//     of in-progress speech; informational only, never finalizes anything.
//   - UserUtteranceFinal (user_input.utterance_final): the finalized
//     utterance handed to reply generation.
//
// assistant_response events
//
//   - AssistantReplySegment (assistant_response.segment): streamed reply
//     text delta for live captioning.
//   - AssistantReplyFinal (assistant_response.final): the reply text
//     stream is complete.
//
// assistant_speech events
//
//   - AssistantSpeechFrame (assistant_speech.frame): synthesized PCM
//     audio frame in strict sentence order.
//
// assistant_playback events
//
//   - PlaybackStopRequested (assistant_playback.stop): the client must
//     stop playing buffered audio immediately (barge-in).
//
// turn_state events
//
//   - TurnCompleted (turn_state.completed): terminal summary of a
//     successful turn. Exactly one of TurnCompleted and TurnFailed is
//     emitted per non-cancelled turn.
//   - TurnCancelled (turn_state.cancelled): the turn was cut short by
//     barge-in; no summary or error follows.
//   - TurnFailed (turn_state.failed): the turn ended in an unrecoverable
//     error surfaced to the client.
package events
