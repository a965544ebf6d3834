// ABOUTME: Sink writer package for streaming block encoding
// ABOUTME: Provides the Session type driving timestamped sample submission
// Package sinkwriter slices unbounded raw PCM byte streams into bounded,
// timestamped samples and writes them to a container sink.
//
// A Session owns one sink and one destination stream. Write carves input
// into blocks of at most four seconds of audio, stamps each with a start
// time and duration computed from the source byte rate (100ns ticks,
// truncating division), and hands them to the sink strictly in order.
// Close finalizes the sink only when it holds unflushed data, releases it,
// and flushes the container bytes back to the destination.
//
// Sessions are single-writer and non-reentrant; no internal locking is
// provided.
//
// Example:
//
//	var out bytes.Buffer
//	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
//	sess, err := sinkwriter.NewFLAC(&out, format)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//	_, err = sess.Write(pcmBytes)
package sinkwriter
