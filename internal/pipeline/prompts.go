package pipeline

import (
	"fmt"
	"strings"

	"adlens/internal/model"
)

const (
	systemTranscriber = "You transcribe short video ads word for word and mark every word you are unsure about. You always answer with valid JSON."
	systemVerifier    = "You settle doubtful words in ad transcripts. Answer only with the corrected word as JSON."
	systemAnalyst     = "You analyze short video ad content quickly and precisely."
	systemStrategist  = "You are a senior performance-marketing creative strategist reviewing vertical video ads."
	systemCopywriter  = "You write short, punchy ad copy for vertical video and always answer in the requested JSON format."
)

var languageNames = map[string]string{
	"zh-TW": "Traditional Chinese",
	"zh-HK": "Traditional Chinese",
	"zh-CN": "Simplified Chinese",
	"zh":    "Chinese",
	"en":    "English",
	"en-US": "English",
	"ja":    "Japanese",
	"ko":    "Korean",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	if code == "" {
		return "Traditional Chinese"
	}
	return code
}

func transcriptPrompt(lang, audioHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce an exact, verbatim transcript of the video ad shown in these keyframes, in %s.\n\n", lang)
	b.WriteString("Sources, in order of authority:\n")
	b.WriteString("1. Legible on-screen text. When text is clearly readable it wins over anything heard.\n")
	b.WriteString("2. Clearly spoken audio. Write what is said, including fillers and repetitions. Keep brand and shop names as they are; never swap them for generic words.\n")
	b.WriteString("3. Context. Only when a sound is genuinely ambiguous and nothing on screen settles it, choose the reading that fits the product and topic.\n\n")
	b.WriteString("Distrust yourself: phrases that sound plausible but mean nothing in context, short modifiers that may have been dropped or added in fast speech, and any urge to tidy up grammar are all signs of a mistake.\n\n")
	b.WriteString("Formatting: write every number with Arabic digits and use a period for decimals.\n\n")
	b.WriteString("Output a JSON object with:\n")
	b.WriteString("- transcript: the full text, with each doubtful word or phrase wrapped as %%word%%. Flag generously.\n")
	b.WriteString("- lowConfidence: one entry per marked word with suspectedWord (without markers), reason and alternatives.\n")
	if audioHint != "" {
		fmt.Fprintf(&b, "\nA speech-to-text pass over the soundtrack produced the draft below. Use it as the audio evidence, correcting it where the frames prove it wrong:\n---\n%s\n---\n", audioHint)
	}
	return b.String()
}

func fallbackTranscriptPrompt(lang, audioHint string) string {
	p := fmt.Sprintf("Transcribe this video ad verbatim in %s. Write all numbers with Arabic digits. Reply with the transcript text only.", lang)
	if audioHint != "" {
		p += "\n\nSpeech-to-text draft of the soundtrack:\n" + audioHint
	}
	return p
}

func verificationPrompt(w lowConfidenceWord) string {
	return fmt.Sprintf(`Verify one word of a video ad transcript.
The word %q was transcribed with low confidence.
Why it is doubtful: %s
Candidates: %s

Look at the frames again. Text visible on screen decides first, then the sound of the word, then what makes sense in the sentence and the ad.
Answer with JSON: {"correctedWord": "..."}.`, w.SuspectedWord, w.Reason, strings.Join(w.Alternatives, ", "))
}

func preliminaryPrompt(lang, transcript string) string {
	return fmt.Sprintf(`Review this video ad using its keyframes and its verified transcript. Write in %s.

Verified transcript:
---
%s
---

Return JSON with:
- coreTheme: the main message of the ad in one sentence.
- sceneTags: objects, settings, styles and concepts visible in the frames.
- riskWords: every word from the transcript or on-screen text that could be a compliance risk. Be strict and consider legal exposure (unproven medical or efficacy claims), social perception (sensitive topics) and ad-platform policy (exaggeration). Typical triggers are superlatives and guarantees ("best", "No.1", "100%% effective"), health or efficacy claims ("natural", "antibacterial", "slimming", "cures"), refund or quality guarantees, unverifiable authority ("doctor recommended", "made in Taiwan"), false scarcity ("today only", "last chance") and topics around finance, health or discrimination.`, lang, transcript)
}

func contextBlock(p *model.PreliminaryResult, opts model.AnalysisOptions, timestamps []float64) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	if len(timestamps) > 0 {
		parts := make([]string, len(timestamps))
		for i, t := range timestamps {
			parts[i] = fmt.Sprintf("%.1f", t)
		}
		fmt.Fprintf(&b, "- Keyframe timestamps (seconds, in image order): %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "- Core theme: %s\n", p.CoreTheme)
	fmt.Fprintf(&b, "- Transcript: %s\n", p.Transcript)
	fmt.Fprintf(&b, "- Target placement: %s\n", opts.Placement)
	return b.String()
}

func scoresPrompt(lang string, p *model.PreliminaryResult, opts model.AnalysisOptions, timestamps []float64) string {
	return fmt.Sprintf(`Score this vertical video ad and assess its compliance risk. Write all text in %s.

%s
1. subScores: give an honest 0-100 score for each of: %s.
   Hook Effectiveness: find the single strongest pattern interrupt within the first 3 seconds (the first big visual change, surprise or direct question) wherever it falls, and score that moment.
   Readability and Composition & Visibility: penalize heavily any on-screen text in the top or bottom ~15%% of the 9:16 frame, which a 4:5 feed crop cuts off.
2. complianceBreakdown: for legal, social and adPolicy give a score (100 means no risk), a summary and the concrete issues, each with a severity and, when it applies, the timestamp it happens at. Add an overallScore and overallSummary.`,
		lang, contextBlock(p, opts, timestamps), strings.Join(model.SubScoreKeys, ", "))
}

func diagnosticsPrompt(lang string, p *model.PreliminaryResult, opts model.AnalysisOptions, timestamps []float64) string {
	return fmt.Sprintf(`Produce a time-coded diagnostic report for this vertical video ad. Write all text in %s.

%s
1. List the concrete moments worth fixing. Tie each to the closest keyframe timestamp above.
2. Feed safe area: this 9:16 video may be cropped to 4:5, losing roughly the top and bottom 15%%. Every piece of text or subtitle inside those zones is a diagnostic with fixType "Text/Graphics", explaining that the message gets cut off.
3. penaltyReason must name the flaw, explain its effect on the viewer (for example cognitive load or lost attention) and link it to a business metric such as CTR or CVR.
4. suggestion states what to achieve, not the exact words to use. Do not write sample copy.
5. Rate impact as high, medium or low and pick a fixType.`,
		lang, contextBlock(p, opts, timestamps))
}

func strategyPrompt(lang string, p *model.PreliminaryResult, opts model.AnalysisOptions) string {
	return fmt.Sprintf(`Identify what works in this vertical video ad and package strategic improvements. Write all text in %s.

%s
1. strengths: 3 or 4 things the creative does well, each with a title and a short explanation of why it works.
2. improvementPackage: high-level recommendations typed Hook, Editing, Subtitles or CTA. actionableItem describes the principle or direction to follow, never finished copy.`,
		lang, contextBlock(p, opts, nil))
}

func copyPrompt(lang, theme, kind, principle string) string {
	return fmt.Sprintf(`Write ad copy for a short vertical video in %s.

- Core theme of the video: %s
- Purpose of the copy: %s
- Principle to apply: %q

Give exactly 3 suggestions, each from a different angle (for example urgency, a pain point, a key benefit), all following the principle. Keep them short enough for on-screen text or a fast voiceover.
Return JSON: {"suggestions": ["...", "...", "..."]}.`, lang, theme, kind, principle)
}
