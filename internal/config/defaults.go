package config

// Default returns the shipped Podium configuration. The numbers here are
// fixed business rules for child speech evaluation, tuned per age tier;
// operators may override individual values via YAML but the defaults are the
// reference behaviour.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel: LogInfo,
		},
		ASR: ASRConfig{
			Language: "en",
		},
		Scoring: ScoringConfig{
			AgeBands: map[AgeGroup]AgeBand{
				AgePrePrimary: {
					MinAge: 3, MaxAge: 5,
					WPMMin: 40, WPMMax: 90,
					FillerTolerance: 0.15,
					PauseTolerance:  0.30,
					Description:     "Monkey See, Monkey Do - Focus on voice presence",
				},
				AgeLowerPrimary: {
					MinAge: 6, MaxAge: 8,
					WPMMin: 60, WPMMax: 110,
					FillerTolerance: 0.12,
					PauseTolerance:  0.25,
					Description:     "Play the Role - Visual icon-based feedback",
				},
				AgeUpperPrimary: {
					MinAge: 9, MaxAge: 10,
					WPMMin: 80, WPMMax: 130,
					FillerTolerance: 0.10,
					PauseTolerance:  0.20,
					Description:     "Gamified Improvement - Progress bars + tips",
				},
				AgeMiddle: {
					MinAge: 11, MaxAge: 13,
					WPMMin: 100, WPMMax: 150,
					FillerTolerance: 0.08,
					PauseTolerance:  0.15,
					Description:     "Detailed Analysis - Full metrics with explanations",
				},
				AgeSecondary: {
					MinAge: 14, MaxAge: 18,
					WPMMin: 120, WPMMax: 160,
					FillerTolerance: 0.05,
					PauseTolerance:  0.10,
					Description:     "Professional Feedback - Complete detailed analysis",
				},
			},
			Weights: map[AgeGroup]WeightRow{
				AgePrePrimary: {
					Clarity: 0.25, Pace: 0.20, Pause: 0.15, Filler: 0.10,
					Repetition: 0.05, Structure: 0.05,
					Loudness: 0.15, PitchVariation: 0.05, Stamina: 0.00,
				},
				AgeLowerPrimary: {
					Clarity: 0.20, Pace: 0.15, Pause: 0.15, Filler: 0.10,
					Repetition: 0.05, Structure: 0.05,
					Loudness: 0.15, PitchVariation: 0.10, Stamina: 0.05,
				},
				AgeUpperPrimary: {
					Clarity: 0.18, Pace: 0.15, Pause: 0.12, Filler: 0.10,
					Repetition: 0.08, Structure: 0.07,
					Loudness: 0.12, PitchVariation: 0.10, Stamina: 0.08,
				},
				AgeMiddle: {
					Clarity: 0.15, Pace: 0.12, Pause: 0.10, Filler: 0.12,
					Repetition: 0.12, Structure: 0.15,
					Loudness: 0.08, PitchVariation: 0.08, Stamina: 0.08,
				},
				AgeSecondary: {
					Clarity: 0.12, Pace: 0.10, Pause: 0.08, Filler: 0.12,
					Repetition: 0.12, Structure: 0.20,
					Loudness: 0.08, PitchVariation: 0.10, Stamina: 0.08,
				},
			},
			Transcript: TranscriptThresholds{
				LongPauseSeconds:      2.0,
				ExcessivePauseSeconds: 4.0,
				LowConfidence:         0.6,
				FillerWords: []string{
					"um", "uh", "umm", "uhh", "like", "you know",
					"sort of", "kind of", "basically", "actually",
					"so", "well", "right", "okay", "yeah",
				},
				IntroMarkers: []string{
					"hello", "hi", "good morning", "good afternoon",
					"today", "i will", "i am going to", "my topic",
					"let me tell you", "my name is",
				},
				ConclusionMarkers: []string{
					"conclusion", "finally", "in summary", "to conclude",
					"thank you", "that is all", "in closing", "to sum up",
					"the end", "that's all",
				},
				MinRepeatWordLength:   3,
				PhraseRepeatThreshold: 3,
			},
			Audio: AudioThresholds{
				SampleRate:  16000,
				FrameLength: 2048,
				HopLength:   512,
				Loudness: LoudnessThresholds{
					OptimalMinDB: -25,
					OptimalMaxDB: -12,
					TooSoftDB:    -30,
					TooLoudDB:    -8,
					VarianceDB:   8.0,
				},
				Pitch: PitchThresholds{
					MonotoneStd:     15.0,
					ErraticStd:      100.0,
					MinVoicedRatio:  0.3,
					MinVoicedFrames: 5,
					FMin:            65,
					FMax:            500,
				},
				Stamina: StaminaThresholds{
					Segments:             4,
					GoodDropoff:          0.75,
					WarningDropoff:       0.50,
					ConsistencyThreshold: 0.25,
					MinDurationSeconds:   15.0,
				},
			},
			MaxSuggestions: 5,
		},
		Presentation: PresentationConfig{
			Badges: map[AgeGroup][]BadgeRule{
				AgePrePrimary: {
					{ID: "strong_voice", Name: "Strong Voice Badge", Emoji: "🦁",
						Condition: "loudness_score >= 70", Animation: "roar"},
					{ID: "brave_speaker", Name: "Brave Speaker Badge", Emoji: "⭐",
						Condition: "voice_present and duration >= 10", Animation: "sparkle"},
					{ID: "happy_talker", Name: "Happy Talker Badge", Emoji: "🌟",
						Condition: "pitch_variation_score >= 60", Animation: "bounce"},
				},
				AgeLowerPrimary: {
					{ID: "confident_speaker", Name: "Confident Speaker Badge", Emoji: "🏅",
						Condition: "loudness_score >= 70 and pace_score >= 60", Animation: "bounce"},
					{ID: "clear_voice", Name: "Clear Voice Badge", Emoji: "🔊",
						Condition: "clarity_score >= 70", Animation: "pulse"},
					{ID: "perfect_pace", Name: "Perfect Pace Badge", Emoji: "⏱️",
						Condition: "pace_score >= 80", Animation: "spin"},
					{ID: "expressive_star", Name: "Expressive Star", Emoji: "🌈",
						Condition: "pitch_variation_score >= 75", Animation: "rainbow"},
				},
				AgeUpperPrimary: {
					{ID: "all_rounder", Name: "All-Rounder Badge", Emoji: "🎯",
						Condition: "all_scores >= 70", Animation: "confetti"},
					{ID: "expression_star", Name: "Expression Star", Emoji: "🌟",
						Condition: "pitch_variation_score >= 80", Animation: "sparkle"},
					{ID: "confidence_champion", Name: "Confidence Champion", Emoji: "💪",
						Condition: "loudness_score >= 85", Animation: "flex"},
					{ID: "endurance_master", Name: "Endurance Master", Emoji: "🏃",
						Condition: "stamina_score >= 80", Animation: "run"},
					{ID: "smooth_speaker", Name: "Smooth Speaker", Emoji: "🎤",
						Condition: "filler_score >= 90", Animation: "mic_drop"},
				},
				AgeMiddle: {
					{ID: "professional_speaker", Name: "Professional Speaker", Emoji: "🎓",
						Condition: "overall_score >= 80", Animation: "graduate"},
					{ID: "structure_master", Name: "Structure Master", Emoji: "📊",
						Condition: "structure_score >= 85", Animation: "chart"},
				},
				AgeSecondary: {
					{ID: "orator", Name: "Master Orator", Emoji: "🏆",
						Condition: "overall_score >= 85", Animation: "trophy"},
				},
			},
			Messages: map[string][]string{
				"too_soft": {
					"Try Lion Voice! 🦁 ROAR so everyone can hear you!",
					"Can you be louder like a big dinosaur? 🦖",
					"Let's wake up the sleepy owl with your voice! 🦉",
					"Use your superhero voice! 🦸",
					"Speak up like a singing bird! 🐦",
				},
				"just_right": {
					"Perfect voice! You sound amazing! ⭐",
					"Goldilocks would say your voice is JUST RIGHT! 🐻",
					"Your voice is as bright as sunshine! ☀️",
					"Wow! You spoke like a star! 🌟",
					"What a wonderful speaker you are! 🎉",
				},
				"too_loud": {
					"Wow, you're loud! Let's try indoor voice! 🏠",
					"Shh, we don't want to scare the bunny! 🐰",
					"Great energy! Now let's be a little gentler 🌸",
					"You're powerful! Let's use our gentle giant voice 🐘",
				},
				"celebration": {
					"You did it! Amazing job speaking! 🎉",
					"Superstar! You spoke so well! 🌟",
					"Hooray! What a great speaker you are! 🎊",
					"Give yourself a big hug! You were wonderful! 🤗",
					"You're a speaking champion! 🏆",
				},
				"encouragement": {
					"You're doing great! Keep trying! 💪",
					"Every speaker practices! You're learning! 📚",
					"I believe in you! Try again! 🌈",
					"You're getting better every time! 🚀",
				},
			},
		},
		Storage: StorageConfig{
			ReportFile: "evaluations.jsonl",
		},
	}
}
