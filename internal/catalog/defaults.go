package catalog

import "github.com/shopspring/decimal"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rng(min, max string) Range { return Range{Min: d(min), Max: d(max)} }

// Default returns the built-in catalog configuration. Each call returns fresh
// slices and maps.
func Default() Config {
	return Config{
		Currency:       "NGN",
		AccountBalance: rng("10000", "10000000"),
		Institutions: []Institution{
			{Code: "044", Name: "Access Bank"},
			{Code: "023", Name: "Citibank Nigeria"},
			{Code: "050", Name: "Ecobank Nigeria"},
			{Code: "070", Name: "Fidelity Bank"},
			{Code: "011", Name: "First Bank of Nigeria"},
			{Code: "214", Name: "First City Monument Bank"},
			{Code: "058", Name: "Guaranty Trust Bank"},
			{Code: "301", Name: "Jaiz Bank"},
			{Code: "082", Name: "Keystone Bank"},
			{Code: "076", Name: "Polaris Bank"},
			{Code: "101", Name: "Providus Bank"},
			{Code: "221", Name: "Stanbic IBTC Bank"},
			{Code: "068", Name: "Standard Chartered Bank"},
			{Code: "232", Name: "Sterling Bank"},
			{Code: "032", Name: "Union Bank of Nigeria"},
			{Code: "033", Name: "United Bank for Africa"},
			{Code: "215", Name: "Unity Bank"},
			{Code: "035", Name: "Wema Bank"},
			{Code: "057", Name: "Zenith Bank"},
		},
		Accounts: []StaticAccount{
			{AccountNumber: "0123456789", InstitutionCode: "044", AccountName: "Adebayo Olamide Johnson", Balance: d("2450000.50")},
			{AccountNumber: "1234567890", InstitutionCode: "058", AccountName: "Chioma Ngozi Okafor", Balance: d("875320.75")},
			{AccountNumber: "2233445566", InstitutionCode: "011", AccountName: "Musa Ibrahim Bello", Balance: d("15750000.00")},
			{AccountNumber: "3344556677", InstitutionCode: "033", AccountName: "Funmilayo Grace Adeyemi", Balance: d("342180.20")},
			{AccountNumber: "9876543210", InstitutionCode: "057", AccountName: "Emeka Chukwuemeka Eze", Balance: d("5120640.00")},
		},
		DefaultChainID: "1",
		Chains: []Chain{
			{ID: "1", Name: "Ethereum", Symbol: "ETH", Range: rng("0.01", "50"), Tokens: []Token{
				{Symbol: "USDT", Name: "Tether USD", Contract: "0xdac17f958d2ee523a2206206994597c13d831ec7", Range: rng("10", "250000")},
				{Symbol: "USDC", Name: "USD Coin", Contract: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Range: rng("10", "250000")},
				{Symbol: "DAI", Name: "Dai Stablecoin", Contract: "0x6b175474e89094c44da98b954eedeac495271d0f", Range: rng("10", "100000")},
				{Symbol: "LINK", Name: "Chainlink", Contract: "0x514910771af9ca656af840dff83e8264ecf986ca", Range: rng("1", "5000")},
				{Symbol: "WBTC", Name: "Wrapped BTC", Contract: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Range: rng("0.001", "5")},
			}},
			{ID: "56", Name: "BNB Smart Chain", Symbol: "BNB", Range: rng("0.05", "200"), Tokens: []Token{
				{Symbol: "USDT", Name: "Tether USD", Contract: "0x55d398326f99059ff775485246999027b3197955", Range: rng("10", "250000")},
				{Symbol: "BUSD", Name: "Binance USD", Contract: "0xe9e7cea3dedca5984780bafc599bd69add087d56", Range: rng("10", "100000")},
				{Symbol: "CAKE", Name: "PancakeSwap", Contract: "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82", Range: rng("1", "20000")},
			}},
			{ID: "137", Name: "Polygon", Symbol: "MATIC", Range: rng("10", "50000"), Tokens: []Token{
				{Symbol: "USDC", Name: "USD Coin (PoS)", Contract: "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", Range: rng("10", "100000")},
				{Symbol: "USDT", Name: "Tether USD (PoS)", Contract: "0xc2132d05d31c914a87c6611c10748aeb04b58e8f", Range: rng("10", "100000")},
				{Symbol: "WETH", Name: "Wrapped Ether", Contract: "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619", Range: rng("0.01", "20")},
				{Symbol: "AAVE", Name: "Aave", Contract: "0xd6df932a45c0f255f85145f286ea0b292b21c90b", Range: rng("0.1", "500")},
			}},
			{ID: "43114", Name: "Avalanche C-Chain", Symbol: "AVAX", Range: rng("1", "2000"), Tokens: []Token{
				{Symbol: "USDC", Name: "USD Coin", Contract: "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e", Range: rng("10", "100000")},
				{Symbol: "WAVAX", Name: "Wrapped AVAX", Contract: "0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7", Range: rng("1", "1000")},
				{Symbol: "JOE", Name: "JoeToken", Contract: "0x6e84a6216ea6dacc71ee8e6b0a5b7322eebc0fdd", Range: rng("10", "50000")},
			}},
			{ID: "42161", Name: "Arbitrum One", Symbol: "ETH", Range: rng("0.01", "25"), Tokens: []Token{
				{Symbol: "ARB", Name: "Arbitrum", Contract: "0x912ce59144191c1204e64559fe8253a0e49e6548", Range: rng("10", "100000")},
				{Symbol: "USDC", Name: "USD Coin", Contract: "0xaf88d065e77c8cc2239327c5edb3a432268e5831", Range: rng("10", "100000")},
				{Symbol: "GMX", Name: "GMX", Contract: "0xfc5a1a6eb076a2c7ad06ed22c90d7e710e35ad0a", Range: rng("0.5", "2000")},
			}},
		},
		Wallets: []StaticWallet{
			{Address: "0xff3f428583c15a5681584e9e5e86e270418ac4d3", ChainID: "56", Label: "Treasury", Balance: d("29888000.15364949"), Symbol: "BNB"},
			{Address: "0x742d35cc6634c0532925a3b844bc454e4438f44e", ChainID: "1", Label: "Cold Storage", Balance: d("1523.48291037"), Symbol: "ETH"},
			{Address: "0x28c6c06298d514db089934071355e5743bf21d60", ChainID: "1", Label: "Exchange Hot Wallet", Balance: d("284112.50000000"), Symbol: "ETH"},
			{Address: "0x0000000000000000000000000000000000000000", ChainID: "1", Label: "Null Address", Balance: d("0"), Symbol: "ETH"},
		},
		Prices: map[string]decimal.Decimal{
			"ETH": d("3200"), "BNB": d("580"), "MATIC": d("0.72"), "AVAX": d("35"),
			"USDT": d("1"), "USDC": d("1"), "BUSD": d("1"), "DAI": d("1"),
			"LINK": d("14.5"), "WBTC": d("64000"), "CAKE": d("2.4"), "WETH": d("3200"),
			"AAVE": d("92"), "WAVAX": d("35"), "JOE": d("0.45"), "ARB": d("1.1"), "GMX": d("28"),
		},
		AddressPrefixes: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f"},
		Names:           DefaultNames(),
		PhonePrefixes: []string{
			"0803", "0806", "0813", "0816", "0703", "0706", "0810", "0814", "0903",
			"0805", "0807", "0815", "0905", "0802", "0808", "0812", "0701", "0708",
			"0902", "0809", "0817", "0818", "0909",
		},
		EmailDomains: []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com"},
		FallbackCity: "Lagos",
		Branches: []Branch{
			{ID: "044-LAG-001", InstitutionCode: "044", Name: "Access Bank Victoria Island", Address: "14/15 Prince Alaba Abiodun Oniru Road, Victoria Island", City: "Lagos"},
			{ID: "058-LAG-001", InstitutionCode: "058", Name: "GTBank Adeola Odeku", Address: "56 Adeola Odeku Street, Victoria Island", City: "Lagos"},
			{ID: "011-LAG-001", InstitutionCode: "011", Name: "First Bank Marina", Address: "35 Marina, Lagos Island", City: "Lagos"},
			{ID: "057-LAG-001", InstitutionCode: "057", Name: "Zenith Bank Ikeja", Address: "Plot 84 Ajose Adeogun Street, Ikeja", City: "Lagos"},
			{ID: "033-LAG-001", InstitutionCode: "033", Name: "UBA Broad Street", Address: "57 Marina, Broad Street", City: "Lagos"},
			{ID: "070-LAG-001", InstitutionCode: "070", Name: "Fidelity Bank Lekki", Address: "Admiralty Way, Lekki Phase 1", City: "Lagos"},
			{ID: "044-ABJ-001", InstitutionCode: "044", Name: "Access Bank Wuse II", Address: "Plot 1665 Oyin Jolayemi Street, Wuse II", City: "Abuja"},
			{ID: "058-ABJ-001", InstitutionCode: "058", Name: "GTBank Garki", Address: "Plot 1015 Ahmadu Bello Way, Garki", City: "Abuja"},
			{ID: "011-ABJ-001", InstitutionCode: "011", Name: "First Bank Central Area", Address: "Plot 777 Independence Avenue, Central Business District", City: "Abuja"},
			{ID: "033-PHC-001", InstitutionCode: "033", Name: "UBA Trans Amadi", Address: "24 Trans Amadi Road", City: "Port Harcourt"},
			{ID: "057-PHC-001", InstitutionCode: "057", Name: "Zenith Bank GRA", Address: "Plot 10 Aba Road, GRA Phase 2", City: "Port Harcourt"},
			{ID: "232-IBD-001", InstitutionCode: "232", Name: "Sterling Bank Ring Road", Address: "Ring Road, Challenge", City: "Ibadan"},
		},
	}
}

// DefaultNames returns the built-in name tables.
func DefaultNames() *NameTables {
	return &NameTables{
		MaleFirst: []string{
			"Adebayo", "Chinedu", "Emeka", "Ibrahim", "Olumide", "Tunde", "Yusuf", "Obinna",
			"Segun", "Musa", "Daniel", "Samuel", "David", "Michael", "Kelechi", "Babatunde",
		},
		FemaleFirst: []string{
			"Ngozi", "Chioma", "Funmilayo", "Aisha", "Folake", "Amaka", "Zainab", "Blessing",
			"Grace", "Yetunde", "Adaeze", "Fatima", "Esther", "Titilayo",
		},
		Middle: []string{
			"Olamide", "Chukwuemeka", "Oluwaseun", "Ifeanyi", "Abiodun", "Nneka", "Temitope",
			"Adaobi", "Babajide", "Uchenna", "Halima", "Oluwafemi",
		},
		SurnameGroup: []SurnameGroup{
			{Name: "yoruba", Surnames: []string{"Adeyemi", "Ogunleye", "Adebayo", "Olawale", "Bankole", "Adesanya"}},
			{Name: "igbo", Surnames: []string{"Okafor", "Okonkwo", "Eze", "Nwosu", "Obi", "Chukwu"}},
			{Name: "hausa", Surnames: []string{"Bello", "Abubakar", "Mohammed", "Usman", "Danjuma", "Sani"}},
			{Name: "other", Surnames: []string{"Johnson", "Williams", "Okon", "Etim", "Ekpo", "George"}},
		},
		MaleTitles:   []string{"Mr.", "Dr.", "Chief", "Alhaji", "Engr."},
		FemaleTitles: []string{"Mrs.", "Ms.", "Dr.", "Alhaja"},
	}
}
