package contracts

const streamABI = `
[
  {
    "name": "createStream",
    "type": "function",
    "stateMutability": "payable",
    "inputs": [
      { "name": "_recipient", "type": "address" },
      { "name": "_duration", "type": "uint256" }
    ],
    "outputs": []
  },
  {
    "name": "withdrawFromStream",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [{ "name": "_streamId", "type": "uint256" }],
    "outputs": []
  },
  {
    "name": "balanceOf",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{ "name": "_streamId", "type": "uint256" }],
    "outputs": [{ "name": "", "type": "uint256" }]
  },
  {
    "name": "CreateStream",
    "type": "event",
    "anonymous": false,
    "inputs": [
      { "name": "streamId", "type": "uint256", "indexed": true },
      { "name": "sender", "type": "address", "indexed": true },
      { "name": "recipient", "type": "address", "indexed": true },
      { "name": "deposit", "type": "uint256", "indexed": false },
      { "name": "tokenAddress", "type": "address", "indexed": false },
      { "name": "duration", "type": "uint256", "indexed": false }
    ]
  }
]
`
