package catalog

func price(v float64) *float64 { return &v }

var indicLanguages = []string{"hi-IN", "mr-IN", "en-IN", "ta-IN", "bn-IN", "gu-IN", "te-IN", "ml-IN", "kn-IN", "od-IN"}

func withPunjabi(langs []string) []string {
	out := make([]string, 0, len(langs)+1)
	out = append(out, langs...)
	return append(out, "pa-IN")
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(map[Component]Axis{
		STT: defaultSTT(),
		LLM: defaultLLM(),
		TTS: defaultTTS(),
	}, map[string]string{
		"bn-IN": "Bengali",
		"en-IN": "English",
		"gu-IN": "Gujarati",
		"hi-IN": "Hindi",
		"kn-IN": "Kannada",
		"ml-IN": "Malayalam",
		"mr-IN": "Marathi",
		"od-IN": "Odia",
		"pa-IN": "Punjabi",
		"ta-IN": "Tamil",
		"te-IN": "Telugu",
	})
}

func defaultSTT() Axis {
	return Axis{
		Providers: []string{"azure", "sarvam", "deepgram", "google", "openai", "iitm", "groq"},
		Models: map[string][]string{
			"azure":    {"azure:default"},
			"sarvam":   {"sarvam:saarika:v2", "sarvam:saarika:v1", "sarvam:saarika:flash"},
			"deepgram": {"deepgram:nova-2-general", "deepgram:nova-3-general"},
			"google":   {"google:command_and_search", "google:default"},
			"openai":   {"openai:whisper-1"},
			"iitm":     {"iitm:ccc-wav2vec-2.0"},
			"groq":     {"groq:whisper-large-v3-turbo", "groq:distil-whisper-large-v3-en", "groq:whisper-large-v3"},
		},
		Languages: map[string][]string{
			"azure":    indicLanguages,
			"sarvam":   indicLanguages,
			"deepgram": {"en-IN", "hi-IN"},
			"google":   {"hi-IN", "mr-IN", "en-IN", "ta-IN", "bn-IN", "gu-IN", "te-IN", "ml-IN", "kn-IN"},
			"openai":   {"hi-IN", "mr-IN", "en-IN", "ta-IN", "kn-IN"},
			"iitm":     indicLanguages,
			"groq":     {"en-IN"},
		},
		Costs: map[string]*float64{
			"azure:default":                   price(0.00835),
			"sarvam:saarika:v2":               price(0.00305),
			"sarvam:saarika:v1":               price(0.00305),
			"sarvam:saarika:flash":            price(0.00305),
			"deepgram:nova-2-general":         price(0.00290),
			"deepgram:nova-3-general":         price(0.00385),
			"google:default":                  price(0.00800),
			"google:command_and_search":       price(0.01200),
			"openai:whisper-1":                price(0.00300),
			"iitm:ccc-wav2vec-2.0":            price(0),
			"groq:whisper-large-v3-turbo":     price(0.000333),
			"groq:distil-whisper-large-v3-en": price(0.000167),
			"groq:whisper-large-v3":           price(0.000925),
		},
	}
}

func defaultLLM() Axis {
	return Axis{
		Providers: []string{"openai", "deepseek", "google", "groq", "togetherai"},
		Models: map[string][]string{
			"openai": {
				"openai:gpt-4o",
				"openai:gpt-4o-mini",
				"openai:gpt-4.1",
				"openai:gpt-4.1-mini",
				"openai:gpt-4.1-nano",
			},
			"deepseek": {
				"deepseek:deepseek-v3",
				"deepseek:deepseek-r1",
			},
			"google": {
				"google:gemini-2.5-flash-preview-04-17",
				"google:gemini-2.5-pro-preview-05-06",
				"google:gemini-2.0-flash",
				"google:gemini-2.0-flash-lite",
				"google:gemini-1.5-flash",
				"google:gemini-1.5-flash-8b",
				"google:gemini-1.5-pro",
			},
			"groq": {
				"groq:gemma2-9b-it",
				"groq:llama-3.3-70b-versatile",
				"groq:llama-3.1-8b-instant",
				"groq:llama3-70b-8192",
				"groq:llama3-8b-8192",
				"groq:deepseek-r1-distill-llama-70b",
				"groq:mistral-saba-24b",
				"groq:qwen-qwq-32b",
				"groq:meta-llama/llama-4-maverick-17b-128e-instruct",
				"groq:meta-llama/llama-4-scout-17b-16e-instruct",
				"groq:meta-llama/Llama-Guard-4-12B",
			},
			"togetherai": {
				"togetherai:Qwen/Qwen3-235B-A22B-fp8-tput",
				"togetherai:meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8",
				"togetherai:meta-llama/Llama-4-Scout-17B-16E-Instruct",
				"togetherai:deepseek-ai/DeepSeek-R1",
				"togetherai:deepseek-ai/DeepSeek-V3",
				"togetherai:deepseek-ai/DeepSeek-R1-Distill-Llama-70B",
				"togetherai:deepseek-ai/DeepSeek-R1-Distill-Qwen-1.5B",
				"togetherai:deepseek-ai/DeepSeek-R1-Distill-Qwen-14B",
				"togetherai:perplexity-ai/r1-1776",
				"togetherai:marin-community/marin-8b-instruct",
				"togetherai:mistralai/Mistral-Small-24B-Instruct-2501",
				"togetherai:meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
				"togetherai:meta-llama/Llama-3.3-70B-Instruct-Turbo",
				"togetherai:nvidia/Llama-3.1-Nemotron-70B-Instruct-HF",
				"togetherai:Qwen/Qwen2.5-7B-Instruct-Turbo",
				"togetherai:Qwen/Qwen2.5-72B-Instruct-Turbo",
				"togetherai:Qwen/Qwen2.5-VL-72B-Instruct",
				"togetherai:Qwen/Qwen2.5-Coder-32B-Instruct",
				"togetherai:Qwen/QwQ-32B",
				"togetherai:Qwen/Qwen2-72B-Instruct",
				"togetherai:Qwen/Qwen2-VL-72B-Instruct",
				"togetherai:arcee-ai/virtuoso-medium-v2",
				"togetherai:arcee-ai/coder-large",
				"togetherai:arcee-ai/virtuoso-large",
				"togetherai:arcee-ai/maestro-reasoning",
				"togetherai:arcee-ai/caller",
				"togetherai:arcee-ai/arcee-blitz",
				"togetherai:meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo",
				"togetherai:meta-llama/Llama-3.2-3B-Instruct-Turbo",
				"togetherai:meta-llama/Meta-Llama-3-8B-Instruct-Lite",
				"togetherai:meta-llama/Llama-3-8b-chat-hf",
				"togetherai:meta-llama/Llama-3-70b-chat-hf",
				"togetherai:google/gemma-2-27b-it",
				"togetherai:google/gemma-2-9b-it",
				"togetherai:google/gemma-2b-it",
				"togetherai:Gryphe/MythoMax-L2-13b",
				"togetherai:mistralai/Mistral-7B-Instruct-v0.1",
				"togetherai:mistralai/Mistral-7B-Instruct-v0.2",
				"togetherai:mistralai/Mistral-7B-Instruct-v0.3",
				"togetherai:mistralai/Mixtral-8x7B-Instruct-v0.1",
				"togetherai:mistralai/Mixtral-8x22B-Instruct-v0.1",
				"togetherai:NousResearch/Nous-Hermes-2-Mixtral-8x7B-DPO",
			},
		},
		Costs: map[string]*float64{
			"openai:gpt-4o":       price(0.0295),
			"openai:gpt-4o-mini":  price(0.00093),
			"openai:gpt-4.1":      price(0.0124),
			"openai:gpt-4.1-mini": price(0.00248),
			"openai:gpt-4.1-nano": price(0.00062),

			"deepseek:deepseek-v3": price(0.0000784),
			"deepseek:deepseek-r1": price(0.003407),

			"google:gemini-2.5-flash-preview-04-17": price(0.00093),
			"google:gemini-2.5-pro-preview-05-06":   price(0.00925),
			"google:gemini-2.0-flash":               price(0.00062),
			"google:gemini-2.0-flash-lite":          price(0.00062),
			"google:gemini-1.5-flash":               price(0.002065),
			"google:gemini-1.5-flash-8b":            price(0.0002325),
			"google:gemini-1.5-pro":                 price(0.02065),

			"groq:gemma2-9b-it":                                  price(0.00106),
			"groq:llama-3.3-70b-versatile":                       price(0.003187),
			"groq:llama-3.1-8b-instant":                          price(0.000274),
			"groq:llama3-70b-8192":                               price(0.003187),
			"groq:llama3-8b-8192":                                price(0.000274),
			"groq:deepseek-r1-distill-llama-70b":                 price(0.004047),
			"groq:mistral-saba-24b":                              price(0.004187),
			"groq:qwen-qwq-32b":                                  price(0.001567),
			"groq:meta-llama/llama-4-maverick-17b-128e-instruct": price(0.00118),
			"groq:meta-llama/llama-4-scout-17b-16e-instruct":     price(0.000652),
			"groq:meta-llama/Llama-Guard-4-12B":                  price(0.00106),

			"togetherai:Qwen/Qwen3-235B-A22B-fp8-tput":                     price(0.00118),
			"togetherai:meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8": price(0.001605),
			"togetherai:meta-llama/Llama-4-Scout-17B-16E-Instruct":         price(0.001077),
			"togetherai:deepseek-ai/DeepSeek-R1":                           price(0.01710),
			"togetherai:deepseek-ai/DeepSeek-V3":                           price(0.006625),
			"togetherai:deepseek-ai/DeepSeek-R1-Distill-Llama-70B":         price(0.01060),
			"togetherai:deepseek-ai/DeepSeek-R1-Distill-Qwen-1.5B":         price(0.000954),
			"togetherai:deepseek-ai/DeepSeek-R1-Distill-Qwen-14B":          price(0.00848),
			"togetherai:perplexity-ai/r1-1776":                             price(0.01710),
			"togetherai:marin-community/marin-8b-instruct":                 price(0.000954),
			"togetherai:mistralai/Mistral-Small-24B-Instruct-2501":         price(0.00424),
			"togetherai:meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo":       price(0.000954),
			"togetherai:meta-llama/Llama-3.3-70B-Instruct-Turbo":           price(0.004664),
			"togetherai:nvidia/Llama-3.1-Nemotron-70B-Instruct-HF":         price(0.004664),
			"togetherai:Qwen/Qwen2.5-7B-Instruct-Turbo":                    price(0.00159),
			"togetherai:Qwen/Qwen2.5-72B-Instruct-Turbo":                   price(0.00636),
			"togetherai:Qwen/Qwen2.5-VL-72B-Instruct":                      price(0.004135),
			"togetherai:Qwen/Qwen2.5-Coder-32B-Instruct":                   price(0.00424),
			"togetherai:Qwen/QwQ-32B":                                      price(0.00636),
			"togetherai:Qwen/Qwen2-72B-Instruct":                           price(0.00477),
			"togetherai:Qwen/Qwen2-VL-72B-Instruct":                        price(0.00636),
			"togetherai:arcee-ai/virtuoso-medium-v2":                       price(0.00265),
			"togetherai:arcee-ai/coder-large":                              price(0.00265),
			"togetherai:arcee-ai/virtuoso-large":                           price(0.00390),
			"togetherai:arcee-ai/maestro-reasoning":                        price(0.00459),
			"togetherai:arcee-ai/caller":                                   price(0.00199),
			"togetherai:arcee-ai/arcee-blitz":                              price(0.002475),
			"togetherai:meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo":     price(0.01855),
			"togetherai:meta-llama/Llama-3.2-3B-Instruct-Turbo":            price(0.000318),
			"togetherai:meta-llama/Meta-Llama-3-8B-Instruct-Lite":          price(0.00053),
			"togetherai:meta-llama/Llama-3-8b-chat-hf":                     price(0.00053),
			"togetherai:meta-llama/Llama-3-70b-chat-hf":                    price(0.004664),
			"togetherai:google/gemma-2-27b-it":                             price(0.00424),
			"togetherai:google/gemma-2-9b-it":                              nil,
			"togetherai:google/gemma-2b-it":                                price(0.00053),
			"togetherai:Gryphe/MythoMax-L2-13b":                            price(0.00053),
			"togetherai:mistralai/Mistral-7B-Instruct-v0.1":                price(0.00106),
			"togetherai:mistralai/Mistral-7B-Instruct-v0.2":                price(0.00106),
			"togetherai:mistralai/Mistral-7B-Instruct-v0.3":                price(0.00106),
			"togetherai:mistralai/Mixtral-8x7B-Instruct-v0.1":              nil,
			"togetherai:mistralai/Mixtral-8x22B-Instruct-v0.1":             nil,
			"togetherai:NousResearch/Nous-Hermes-2-Mixtral-8x7B-DPO":       price(0.00318),
		},
	}
}

func defaultTTS() Axis {
	return Axis{
		Providers: []string{"azure", "sarvam", "elevenlabs", "cartesia", "groq"},
		Models: map[string][]string{
			"azure": {
				"azure:hi-IN-AaravNeural",
				"azure:hi-IN-AnanyaNeural",
				"azure:hi-IN-AartiNeural",
				"azure:hi-IN-ArjunNeural",
				"azure:hi-IN-KavyaNeural",
				"azure:hi-IN-KunalNeural",
				"azure:hi-IN-RehaanNeural",
				"azure:hi-IN-SwaraNeural",
				"azure:hi-IN-MadhurNeural",
				"azure:mr-IN-AarohiNeural",
				"azure:mr-IN-ManoharNeural",
				"azure:en-IN-AaravNeural",
				"azure:en-IN-AashiNeural",
				"azure:en-IN-AartiNeural",
				"azure:en-IN-ArjunNeural",
				"azure:en-IN-AnanyaNeural",
				"azure:en-IN-KavyaNeural",
				"azure:en-IN-KunalNeural",
				"azure:en-IN-NeerjaNeural",
				"azure:en-IN-PrabhatNeural",
				"azure:en-IN-RehaanNeural",
				"azure:ta-IN-PallaviNeural",
				"azure:ta-IN-ValluvarNeural",
				"azure:bn-IN-TanishaaNeural",
				"azure:bn-IN-BashkarNeural",
				"azure:gu-IN-DhwaniNeural",
				"azure:gu-IN-NiranjanNeural",
				"azure:te-IN-ShrutiNeural",
				"azure:te-IN-MohanNeural",
				"azure:ml-IN-SobhanaNeural",
				"azure:ml-IN-MidhunNeural",
				"azure:kn-IN-SapnaNeural",
				"azure:kn-IN-GaganNeural",
				"azure:or-IN-SubhasiniNeural",
				"azure:or-IN-SukantNeural",
				"azure:pa-IN-OjasNeural",
				"azure:pa-IN-VaaniNeural",
			},
			"sarvam": {
				"sarvam:Diya",
				"sarvam:Maya",
				"sarvam:Meera",
				"sarvam:Pavithra",
				"sarvam:Maitreyi",
				"sarvam:Misha",
				"sarvam:Amol",
				"sarvam:Arjun",
				"sarvam:Amartya",
				"sarvam:Arvind",
				"sarvam:Neel",
				"sarvam:Vian",
			},
			"elevenlabs": {
				"elevenlabs:en-Brittney",
				"elevenlabs:hi-Monika-Sogam",
				"elevenlabs:ta-Meera",
			},
			"cartesia": {
				"cartesia:en-Carson",
				"cartesia:en-Ethan",
				"cartesia:en-David",
				"cartesia:en-Sophie",
				"cartesia:en-Savannah",
				"cartesia:en-Brooke",
				"cartesia:en-Corinne",
				"cartesia:hi-Apoorva",
				"cartesia:hi-Ananya",
				"cartesia:hi-Mita",
				"cartesia:hi-Amit",
				"cartesia:hi-Ishan",
				"cartesia:hi-Mihir",
			},
			"groq": {
				"groq:en-Arista-PlayAI",
				"groq:en-Atlas-PlayAI",
				"groq:en-Basil-PlayAI",
				"groq:en-Briggs-PlayAI",
				"groq:en-Calum-PlayAI",
				"groq:en-Celeste-PlayAI",
				"groq:en-Cheyenne-PlayAI",
				"groq:en-Chip-PlayAI",
				"groq:en-Cillian-PlayAI",
				"groq:en-Deedee-PlayAI",
				"groq:en-Fritz-PlayAI",
				"groq:en-Gail-PlayAI",
				"groq:en-Indigo-PlayAI",
				"groq:en-Mamaw-PlayAI",
				"groq:en-Mason-PlayAI",
				"groq:en-Mikail-PlayAI",
				"groq:en-Mitch-PlayAI",
				"groq:en-Quinn-PlayAI",
				"groq:en-Thunder-PlayAI",
			},
		},
		Languages: map[string][]string{
			"azure":      withPunjabi(indicLanguages),
			"sarvam":     withPunjabi(indicLanguages),
			"elevenlabs": {"en-IN", "hi-IN", "ta-IN"},
			"cartesia":   {"en-IN", "hi-IN"},
			"groq":       {"en-IN"},
		},
		Encoding: map[string]LanguageEncoding{
			"azure":      EncodingRegion,
			"elevenlabs": EncodingBare,
			"cartesia":   EncodingBare,
			"groq":       EncodingBare,
		},
		Costs: map[string]*float64{
			"azure":      price(0.03),
			"sarvam":     price(0.036585),
			"elevenlabs": price(0.36),
			"cartesia":   price(0.015),
			"groq":       price(0.0600),
		},
	}
}
