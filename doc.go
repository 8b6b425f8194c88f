// Package wavsplit cuts a PCM audio file into independently playable WAV
// files of a target duration, without re-encoding the samples.
//
// The pipeline has four steps:
//
//   - Probe sniffs the container (RIFF/WAVE or AIFF) and returns a Demuxer
//     yielding packets of raw PCM.
//   - BuildInventory drains the demuxer and records the cumulative end time of
//     every packet.
//   - PlanChunks groups the packets into contiguous chunks, never splitting a
//     packet: every chunk but the last lasts at least the requested duration.
//   - WriteChunkFile writes each chunk behind a freshly synthesized 44 byte
//     PCM header.
//
// Split runs the whole pipeline on a file and names the outputs
// {prefix}_{NNN}.wav, starting at 001.
package wavsplit
